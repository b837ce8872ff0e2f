package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// the inbound push surface: source repositories overwrite records wholesale;
// display structures and index rows are regenerated synchronously, the
// owning person's lists asynchronously via the job queue.

type pushResponse struct {
	ID      string `json:"id"`
	Created bool   `json:"created"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// validate and persist one pushed record, then reindex it.  returns the HTTP
// status and response body for the handler to emit.
func (svc *serviceContext) handleActivityPush(ctx context.Context, cl *clientContext, rec rawRecord) (int, interface{}) {
	sourceRepo := rec.str("source_repo")
	sourceObjectID := rec.str("source_repo_object_id")
	entityID := rec.str("entity_id")

	switch {
	case sourceRepo == "" || sourceObjectID == "":
		return http.StatusBadRequest, errorResponse{Error: "source_repo and source_repo_object_id are required"}

	case entityID == "":
		return http.StatusBadRequest, errorResponse{Error: "entity_id is required"}

	case rec.hasData() == false:
		// reject before any persistence or indexing
		return http.StatusBadRequest, errorResponse{Error: "data must be an object"}
	}

	schema := ""
	typeSource := ""

	if ref := rec.typeRef(); ref != nil {
		typeSource = ref.Source
		schema = svc.vocab.schemaOf(ref.Source)
	}

	// an unresolvable schema is a mapping defect on our side, not a client error
	if schema == "" {
		err := fmt.Errorf("%w: type [%s]", errMappingNotFound, typeSource)
		cl.errorf("mapping defect for record [%s/%s]: %s", sourceRepo, sourceObjectID, err.Error())
		return http.StatusInternalServerError, errorResponse{Error: err.Error()}
	}

	display, err := svc.newTransformContext(rec, schema).transform()

	if err != nil {
		var missing *fieldTransformerError

		if errors.Is(err, errMappingNotFound) == true || errors.As(err, &missing) == true {
			cl.errorf("mapping defect for schema [%s]: %s", schema, err.Error())
			return http.StatusInternalServerError, errorResponse{Error: err.Error()}
		}

		cl.errorf("transformation of record [%s/%s] failed: %s", sourceRepo, sourceObjectID, err.Error())

		return http.StatusInternalServerError, errorResponse{Error: "record transformation failed"}
	}

	stored, encErr := encodeActivity(rec, display, sourceRepo, sourceObjectID, entityID, typeSource)
	if encErr != nil {
		cl.errorf("failed to encode record [%s/%s]: %s", sourceRepo, sourceObjectID, encErr.Error())
		return http.StatusInternalServerError, errorResponse{Error: "record encoding failed"}
	}

	created, err := svc.store.upsertActivity(ctx, stored)
	if err != nil {
		cl.errorf("failed to persist record [%s/%s]: %s", sourceRepo, sourceObjectID, err.Error())
		return http.StatusInternalServerError, errorResponse{Error: "record persistence failed"}
	}

	rows := svc.newIndexContext().buildIndexRows(rec, stored.ID, time.Now())

	if err := svc.store.replaceSearchIndex(ctx, stored.ID, rows); err != nil {
		cl.errorf("failed to reindex record [%s]: %s", stored.ID, err.Error())
		return http.StatusInternalServerError, errorResponse{Error: "record indexing failed"}
	}

	if _, _, err := svc.store.ensureEntity(ctx, entityID); err != nil {
		cl.errorf("failed to ensure entity [%s]: %s", entityID, err.Error())
	} else if err := svc.queue.schedule(ctx, entityID); err != nil {
		// list regeneration is best-effort; the push itself succeeded
		cl.errorf("failed to schedule profile pull for [%s]: %s", entityID, err.Error())
	}

	cl.infof("pushed record [%s/%s] => [%s] (created: %v, schema: %s)", sourceRepo, sourceObjectID, stored.ID, created, schema)

	status := http.StatusOK
	if created == true {
		status = http.StatusCreated
	}

	return status, pushResponse{ID: stored.ID.String(), Created: created}
}

func encodeActivity(rec rawRecord, display *displayStructure, sourceRepo, sourceObjectID, entityID, typeSource string) (*activityRecord, error) {
	stored := &activityRecord{
		SourceRepo:         sourceRepo,
		SourceRepoObjectID: sourceObjectID,
		EntityID:           entityID,
		Title:              rec.str("title"),
		Subtitle:           rec.str("subtitle"),
		TypeSource:         typeSource,
	}

	encode := func(val interface{}) (datatypes.JSON, error) {
		b, err := json.Marshal(val)
		return datatypes.JSON(b), err
	}

	var err error

	if stored.Raw, err = encode(rec); err != nil {
		return nil, err
	}

	if keywords := rec.keywords(); len(keywords) > 0 {
		var labels []string

		for i := range keywords {
			if label := keywords[i].labelFor(langDefault); label != "" {
				labels = append(labels, label)
			}
		}

		if stored.Keywords, err = encode(labels); err != nil {
			return nil, err
		}
	}

	if stored.PrimaryDetails, err = encode(display.PrimaryDetails); err != nil {
		return nil, err
	}

	if stored.SecondaryDetails, err = encode(display.SecondaryDetails); err != nil {
		return nil, err
	}

	if stored.ListDetails, err = encode(display.List); err != nil {
		return nil, err
	}

	return stored, nil
}

func (svc *serviceContext) handleActivityDelete(ctx context.Context, cl *clientContext, id string) (int, interface{}) {
	objectID, err := uuid.Parse(id)
	if err != nil {
		return http.StatusBadRequest, errorResponse{Error: "invalid record id"}
	}

	rec, err := svc.store.activityByID(ctx, objectID)

	if errors.Is(err, gorm.ErrRecordNotFound) == true {
		return http.StatusNotFound, errorResponse{Error: "record not found"}
	}

	if err != nil {
		cl.errorf("failed to load record [%s]: %s", id, err.Error())
		return http.StatusInternalServerError, errorResponse{Error: "record lookup failed"}
	}

	if err := svc.store.deleteActivity(ctx, objectID); err != nil {
		cl.errorf("failed to delete record [%s]: %s", id, err.Error())
		return http.StatusInternalServerError, errorResponse{Error: "record deletion failed"}
	}

	if rec.EntityID != "" {
		if err := svc.queue.schedule(ctx, rec.EntityID); err != nil {
			cl.errorf("failed to schedule profile pull for [%s]: %s", rec.EntityID, err.Error())
		}
	}

	cl.infof("deleted record [%s]", id)

	return http.StatusOK, gin.H{"deleted": id}
}

type mediumPayload struct {
	Kind      string                 `json:"kind"`
	Thumbnail string                 `json:"thumbnail"`
	Cover     map[string]string      `json:"cover"`
	License   map[string]interface{} `json:"license"`
}

func (svc *serviceContext) handleMediaPush(ctx context.Context, cl *clientContext, id string, payload []mediumPayload) (int, interface{}) {
	objectID, err := uuid.Parse(id)
	if err != nil {
		return http.StatusBadRequest, errorResponse{Error: "invalid record id"}
	}

	if _, err := svc.store.activityByID(ctx, objectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) == true {
			return http.StatusNotFound, errorResponse{Error: "record not found"}
		}

		cl.errorf("failed to load record [%s]: %s", id, err.Error())

		return http.StatusInternalServerError, errorResponse{Error: "record lookup failed"}
	}

	var media []mediumRecord

	for _, m := range payload {
		medium := mediumRecord{
			Kind:      m.Kind,
			Thumbnail: m.Thumbnail,
		}

		if len(m.Cover) > 0 {
			if medium.Cover, err = json.Marshal(m.Cover); err != nil {
				return http.StatusBadRequest, errorResponse{Error: "invalid cover payload"}
			}
		}

		if len(m.License) > 0 {
			if medium.License, err = json.Marshal(m.License); err != nil {
				return http.StatusBadRequest, errorResponse{Error: "invalid license payload"}
			}
		}

		media = append(media, medium)
	}

	if err := svc.store.replaceMedia(ctx, objectID, media); err != nil {
		cl.errorf("failed to replace media for [%s]: %s", id, err.Error())
		return http.StatusInternalServerError, errorResponse{Error: "media persistence failed"}
	}

	cl.infof("replaced %d media entries for record [%s]", len(media), id)

	return http.StatusOK, gin.H{"count": len(media)}
}

type relationPayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type relationResult struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// link records pairwise.  failures are reported per item in a
// created/not_found/error breakdown; the batch never fails as a whole.
func (svc *serviceContext) handleRelationBatch(ctx context.Context, cl *clientContext, payload []relationPayload) (int, interface{}) {
	var results []relationResult

	for _, rel := range payload {
		result := relationResult{From: rel.From, To: rel.To}

		fromID, fromErr := uuid.Parse(rel.From)
		toID, toErr := uuid.Parse(rel.To)

		if fromErr != nil || toErr != nil {
			result.Status = "error"
			result.Error = "invalid record id"
			results = append(results, result)
			continue
		}

		if svc.relationEndpointsExist(ctx, fromID, toID) == false {
			result.Status = "not_found"
			results = append(results, result)
			continue
		}

		if err := svc.store.createRelation(ctx, fromID, toID); err != nil {
			cl.errorf("failed to link [%s] -> [%s]: %s", rel.From, rel.To, err.Error())
			result.Status = "error"
			result.Error = err.Error()
			results = append(results, result)
			continue
		}

		result.Status = "created"
		results = append(results, result)
	}

	return http.StatusOK, gin.H{"results": results}
}

func (svc *serviceContext) relationEndpointsExist(ctx context.Context, from, to uuid.UUID) bool {
	if _, err := svc.store.activityByID(ctx, from); err != nil {
		return false
	}

	if _, err := svc.store.activityByID(ctx, to); err != nil {
		return false
	}

	return true
}
