package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// thin gin handlers; request logic lives with the owning component

type hcResp struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

func (svc *serviceContext) ignoreHandler(c *gin.Context) {
}

func (svc *serviceContext) versionHandler(c *gin.Context) {
	c.JSON(http.StatusOK, svc.version)
}

func (svc *serviceContext) healthCheckHandler(c *gin.Context) {
	hcMap := make(map[string]hcResp)

	status := http.StatusOK

	if err := svc.store.ping(); err != nil {
		hcMap["postgres"] = hcResp{Healthy: false, Message: err.Error()}
		status = http.StatusInternalServerError
	} else {
		hcMap["postgres"] = hcResp{Healthy: true}
	}

	if err := svc.queue.ping(c.Request.Context()); err != nil {
		hcMap["redis"] = hcResp{Healthy: false, Message: err.Error()}
		status = http.StatusInternalServerError
	} else {
		hcMap["redis"] = hcResp{Healthy: true}
	}

	// the vocabulary service degrades gracefully, so it never fails the check
	if members := svc.vocab.collectionMembers(firstSchemaCollection(svc.config.Schemas)); len(members) == 0 {
		hcMap["vocabulary"] = hcResp{Healthy: true, Message: "no cached membership"}
	} else {
		hcMap["vocabulary"] = hcResp{Healthy: true}
	}

	c.JSON(status, hcMap)
}

func firstSchemaCollection(schemas []serviceConfigSchema) string {
	if len(schemas) > 0 {
		return schemas[0].Collection
	}

	return ""
}

func (svc *serviceContext) pushActivityHandler(c *gin.Context) {
	cl := svc.newClientContext(c)

	var rec rawRecord

	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request payload"})
		return
	}

	status, body := svc.handleActivityPush(c.Request.Context(), cl, rec)

	c.JSON(status, body)
}

func (svc *serviceContext) deleteActivityHandler(c *gin.Context) {
	cl := svc.newClientContext(c)

	status, body := svc.handleActivityDelete(c.Request.Context(), cl, c.Param("id"))

	c.JSON(status, body)
}

func (svc *serviceContext) mediaHandler(c *gin.Context) {
	cl := svc.newClientContext(c)

	var payload []mediumPayload

	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request payload"})
		return
	}

	status, body := svc.handleMediaPush(c.Request.Context(), cl, c.Param("id"), payload)

	c.JSON(status, body)
}

func (svc *serviceContext) relationsHandler(c *gin.Context) {
	cl := svc.newClientContext(c)

	var payload []relationPayload

	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request payload"})
		return
	}

	status, body := svc.handleRelationBatch(c.Request.Context(), cl, payload)

	c.JSON(status, body)
}

func (svc *serviceContext) searchHandler(c *gin.Context) {
	cl := svc.newClientContext(c)

	var req searchRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request payload"})
		return
	}

	status, body := svc.newSearchContext(cl, req).execute(c.Request.Context())

	c.JSON(status, body)
}

// record detail: persisted display structure, with the user's secondary
// override taking precedence over the derived secondary details
func (svc *serviceContext) activityDetailsHandler(c *gin.Context) {
	cl := svc.newClientContext(c)

	objectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid record id"})
		return
	}

	rec, err := svc.store.activityByID(c.Request.Context(), objectID)

	if errors.Is(err, gorm.ErrRecordNotFound) == true {
		c.JSON(http.StatusNotFound, errorResponse{Error: "record not found"})
		return
	}

	if err != nil {
		cl.errorf("failed to load record [%s]: %s", objectID, err.Error())
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "record lookup failed"})
		return
	}

	secondary := rec.SecondaryDetails
	if len(rec.SecondaryOverride) > 0 {
		secondary = rec.SecondaryOverride
	}

	c.JSON(http.StatusOK, gin.H{
		"id":                rec.ID.String(),
		"title":             rec.Title,
		"subtitle":          rec.Subtitle,
		"primary_details":   json.RawMessage(rec.PrimaryDetails),
		"secondary_details": json.RawMessage(secondary),
		"list":              json.RawMessage(rec.ListDetails),
	})
}

// the user-editable secondary details overlay; survives reindexing
func (svc *serviceContext) secondaryOverrideHandler(c *gin.Context) {
	cl := svc.newClientContext(c)

	objectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid record id"})
		return
	}

	var fragments []localizedFragment

	if err := c.ShouldBindJSON(&fragments); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request payload"})
		return
	}

	encoded, err := json.Marshal(fragments)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request payload"})
		return
	}

	err = svc.store.updateSecondaryOverride(c.Request.Context(), objectID, datatypes.JSON(encoded))

	if errors.Is(err, gorm.ErrRecordNotFound) == true {
		c.JSON(http.StatusNotFound, errorResponse{Error: "record not found"})
		return
	}

	if err != nil {
		cl.errorf("failed to save override for [%s]: %s", objectID, err.Error())
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "override persistence failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": objectID.String()})
}

func (svc *serviceContext) entityListsHandler(c *gin.Context) {
	cl := svc.newClientContext(c)

	ent, err := svc.store.entityByID(c.Request.Context(), c.Param("id"))

	if errors.Is(err, gorm.ErrRecordNotFound) == true {
		c.JSON(http.StatusNotFound, errorResponse{Error: "entity not found"})
		return
	}

	if err != nil {
		cl.errorf("failed to load entity [%s]: %s", c.Param("id"), err.Error())
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "entity lookup failed"})
		return
	}

	lists := ent.ActivityLists
	if len(lists) == 0 {
		lists = datatypes.JSON([]byte("{}"))
	}

	c.JSON(http.StatusOK, gin.H{
		"id":    ent.ID,
		"lists": json.RawMessage(lists),
	})
}
