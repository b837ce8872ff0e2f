package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// persisted state.  raw records are authoritative; display structures and all
// search index rows are derived and fully regenerable.  user-editable overlays
// (secondary details override, list ordering, showcase) survive regeneration.

type activityRecord struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	SourceRepo         string    `gorm:"uniqueIndex:idx_activity_source_key"`
	SourceRepoObjectID string    `gorm:"uniqueIndex:idx_activity_source_key"`
	EntityID           string    `gorm:"index"`
	Title              string
	Subtitle           string
	TypeSource         string `gorm:"index"`
	Keywords           datatypes.JSON
	Raw                datatypes.JSON
	PrimaryDetails     datatypes.JSON
	SecondaryDetails   datatypes.JSON
	SecondaryOverride  datatypes.JSON
	ListDetails        datatypes.JSON
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type entityRecord struct {
	ID            string `gorm:"primaryKey"`
	Kind          string
	Title         string
	Username      string `gorm:"index"`
	Institution   string
	Profile       datatypes.JSON
	ActivityLists datatypes.JSON
	ListOrdering  datatypes.JSON
	Showcase      datatypes.JSON
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type mediumRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ObjectID   uuid.UUID `gorm:"index"`
	Kind       string
	OrderIndex int
	Thumbnail  string
	Cover      datatypes.JSON
	License    datatypes.JSON
}

type searchTextRow struct {
	ID       uint      `gorm:"primaryKey"`
	ObjectID uuid.UUID `gorm:"index"`
	Language string
	Text     string `gorm:"type:text"`
}

type searchDateRow struct {
	ID       uint      `gorm:"primaryKey"`
	ObjectID uuid.UUID `gorm:"index"`
	Date     time.Time `gorm:"type:date"`
}

type searchDateRangeRow struct {
	ID       uint      `gorm:"primaryKey"`
	ObjectID uuid.UUID `gorm:"index"`
	DateFrom time.Time `gorm:"type:date"`
	DateTo   time.Time `gorm:"type:date"`
}

type searchDateRelevanceRow struct {
	ID       uint      `gorm:"primaryKey"`
	ObjectID uuid.UUID `gorm:"index"`
	Date     time.Time `gorm:"type:date"`
	Rank     float64
}

type relationRow struct {
	ID     uint      `gorm:"primaryKey"`
	FromID uuid.UUID `gorm:"uniqueIndex:idx_relation_pair"`
	ToID   uuid.UUID `gorm:"uniqueIndex:idx_relation_pair"`
}

// the complete derived index state for one object
type indexRows struct {
	texts     []searchTextRow
	dates     []searchDateRow
	ranges    []searchDateRangeRow
	relevance []searchDateRelevanceRow
}

type storeContext struct {
	db *gorm.DB
}

func initializeStore(cfg *serviceConfigDB) (*storeContext, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Pass, cfg.Name, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&activityRecord{},
		&entityRecord{},
		&mediumRecord{},
		&searchTextRow{},
		&searchDateRow{},
		&searchDateRangeRow{},
		&searchDateRelevanceRow{},
		&relationRow{},
	)
	if err != nil {
		return nil, err
	}

	return &storeContext{db: db}, nil
}

func (st *storeContext) ping() error {
	sqlDB, err := st.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Ping()
}

// upsert by (source_repo, source_repo_object_id); reports whether the record
// was newly created
func (st *storeContext) upsertActivity(ctx context.Context, rec *activityRecord) (bool, error) {
	var existing activityRecord

	err := st.db.WithContext(ctx).
		Where("source_repo = ? AND source_repo_object_id = ?", rec.SourceRepo, rec.SourceRepoObjectID).
		First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) == true {
		rec.ID = uuid.New()

		if err := st.db.WithContext(ctx).Create(rec).Error; err != nil {
			return false, err
		}

		return true, nil
	}

	if err != nil {
		return false, err
	}

	rec.ID = existing.ID
	rec.SecondaryOverride = existing.SecondaryOverride
	rec.CreatedAt = existing.CreatedAt

	if err := st.db.WithContext(ctx).Save(rec).Error; err != nil {
		return false, err
	}

	return false, nil
}

func (st *storeContext) activityByID(ctx context.Context, id uuid.UUID) (*activityRecord, error) {
	var rec activityRecord

	if err := st.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, err
	}

	return &rec, nil
}

func (st *storeContext) activitiesByEntity(ctx context.Context, entityID string) ([]activityRecord, error) {
	var recs []activityRecord

	if err := st.db.WithContext(ctx).Where("entity_id = ?", entityID).Find(&recs).Error; err != nil {
		return nil, err
	}

	return recs, nil
}

// delete a record along with every derived row
func (st *storeContext) deleteActivity(ctx context.Context, id uuid.UUID) error {
	return st.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteIndexRows(tx, id); err != nil {
			return err
		}

		if err := tx.Where("object_id = ?", id).Delete(&mediumRecord{}).Error; err != nil {
			return err
		}

		if err := tx.Where("from_id = ? OR to_id = ?", id, id).Delete(&relationRow{}).Error; err != nil {
			return err
		}

		return tx.Delete(&activityRecord{}, "id = ?", id).Error
	})
}

func deleteIndexRows(tx *gorm.DB, objectID uuid.UUID) error {
	if err := tx.Where("object_id = ?", objectID).Delete(&searchTextRow{}).Error; err != nil {
		return err
	}

	if err := tx.Where("object_id = ?", objectID).Delete(&searchDateRow{}).Error; err != nil {
		return err
	}

	if err := tx.Where("object_id = ?", objectID).Delete(&searchDateRangeRow{}).Error; err != nil {
		return err
	}

	return tx.Where("object_id = ?", objectID).Delete(&searchDateRelevanceRow{}).Error
}

// atomic replace: all four row kinds for an object are deleted and rewritten
// in one transaction so readers never observe mixed old/new state
func (st *storeContext) replaceSearchIndex(ctx context.Context, objectID uuid.UUID, rows indexRows) error {
	return st.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteIndexRows(tx, objectID); err != nil {
			return err
		}

		if len(rows.texts) > 0 {
			if err := tx.Create(&rows.texts).Error; err != nil {
				return err
			}
		}

		if len(rows.dates) > 0 {
			if err := tx.Create(&rows.dates).Error; err != nil {
				return err
			}
		}

		if len(rows.ranges) > 0 {
			if err := tx.Create(&rows.ranges).Error; err != nil {
				return err
			}
		}

		if len(rows.relevance) > 0 {
			if err := tx.Create(&rows.relevance).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (st *storeContext) entityByID(ctx context.Context, id string) (*entityRecord, error) {
	var ent entityRecord

	if err := st.db.WithContext(ctx).First(&ent, "id = ?", id).Error; err != nil {
		return nil, err
	}

	return &ent, nil
}

func (st *storeContext) saveEntity(ctx context.Context, ent *entityRecord) error {
	return st.db.WithContext(ctx).Save(ent).Error
}

func (st *storeContext) ensureEntity(ctx context.Context, id string) (*entityRecord, bool, error) {
	ent, err := st.entityByID(ctx, id)

	if errors.Is(err, gorm.ErrRecordNotFound) == true {
		ent = &entityRecord{ID: id, Kind: entityKindPerson, Username: id}

		if err := st.db.WithContext(ctx).Create(ent).Error; err != nil {
			return nil, false, err
		}

		return ent, true, nil
	}

	if err != nil {
		return nil, false, err
	}

	return ent, false, nil
}

// known internal repository entry lookup for entity-reference rendering
func (st *storeContext) entryTitle(source string) (string, bool) {
	var ent entityRecord

	err := st.db.First(&ent, "id = ?", source).Error
	if err == nil && ent.Title != "" {
		return ent.Title, true
	}

	return "", false
}

func (st *storeContext) updateSecondaryOverride(ctx context.Context, id uuid.UUID, override datatypes.JSON) error {
	res := st.db.WithContext(ctx).
		Model(&activityRecord{}).
		Where("id = ?", id).
		Update("secondary_override", override)

	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (st *storeContext) mediaByObject(ctx context.Context, objectID uuid.UUID) ([]mediumRecord, error) {
	var media []mediumRecord

	err := st.db.WithContext(ctx).
		Where("object_id = ?", objectID).
		Order("order_index asc").
		Find(&media).Error
	if err != nil {
		return nil, err
	}

	return media, nil
}

func (st *storeContext) replaceMedia(ctx context.Context, objectID uuid.UUID, media []mediumRecord) error {
	return st.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("object_id = ?", objectID).Delete(&mediumRecord{}).Error; err != nil {
			return err
		}

		for i := range media {
			media[i].ID = uuid.New()
			media[i].ObjectID = objectID
			media[i].OrderIndex = i
		}

		if len(media) == 0 {
			return nil
		}

		return tx.Create(&media).Error
	})
}

func (st *storeContext) createRelation(ctx context.Context, from, to uuid.UUID) error {
	return st.db.WithContext(ctx).Create(&relationRow{FromID: from, ToID: to}).Error
}
