package main

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// deferred profile pulls.  each push schedules a pull for the owning person a
// short delay in the future; scheduling again before the delay elapses simply
// moves the due time (ZADD replaces the member's score), so a burst of pushes
// for one person collapses into a single pull.

const defaultQueueName = "activities:profile_pulls"
const defaultDebounceSeconds = 30
const defaultPollSeconds = 5

type jobQueue struct {
	rdb   *redis.Client
	queue string
	delay time.Duration
	poll  time.Duration
	log   *zap.SugaredLogger
}

func initializeQueue(cfg *serviceConfigRedis, log *zap.SugaredLogger) *jobQueue {
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	queue := cfg.Queue
	if queue == "" {
		queue = defaultQueueName
	}

	delay := cfg.DebounceSeconds
	if delay < 1 {
		delay = defaultDebounceSeconds
	}

	poll := cfg.PollSeconds
	if poll < 1 {
		poll = defaultPollSeconds
	}

	return &jobQueue{
		rdb:   rdb,
		queue: queue,
		delay: time.Duration(delay) * time.Second,
		poll:  time.Duration(poll) * time.Second,
		log:   log,
	}
}

func (q *jobQueue) ping(ctx context.Context) error {
	return q.rdb.Ping(ctx).Err()
}

// schedule (or reschedule) a profile pull for a person
func (q *jobQueue) schedule(ctx context.Context, personID string) error {
	due := float64(time.Now().Add(q.delay).Unix())

	return q.rdb.ZAdd(ctx, q.queue, redis.Z{Score: due, Member: personID}).Err()
}

func (q *jobQueue) due(ctx context.Context) ([]string, error) {
	now := strconv.FormatInt(time.Now().Unix(), 10)

	return q.rdb.ZRangeByScore(ctx, q.queue, &redis.ZRangeBy{Min: "0", Max: now}).Result()
}

// remove a due member; only the caller that actually removed it runs the job
func (q *jobQueue) claim(ctx context.Context, personID string) (bool, error) {
	n, err := q.rdb.ZRem(ctx, q.queue, personID).Result()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func (svc *serviceContext) startWorker(ctx context.Context) {
	go svc.workerLoop(ctx)
}

func (svc *serviceContext) workerLoop(ctx context.Context) {
	ticker := time.NewTicker(svc.queue.poll)
	defer ticker.Stop()

	svc.log.Infof("profile pull worker started (poll: %s, debounce: %s)", svc.queue.poll, svc.queue.delay)

	for {
		select {
		case <-ctx.Done():
			svc.log.Infof("profile pull worker stopped")
			return

		case <-ticker.C:
			svc.processDueJobs(ctx)
		}
	}
}

func (svc *serviceContext) processDueJobs(ctx context.Context) {
	members, err := svc.queue.due(ctx)
	if err != nil {
		svc.log.Errorf("failed to read due jobs: %s", err.Error())
		return
	}

	for _, personID := range members {
		claimed, err := svc.queue.claim(ctx, personID)
		if err != nil {
			svc.log.Errorf("failed to claim job for [%s]: %s", personID, err.Error())
			continue
		}

		if claimed == false {
			continue
		}

		if err := svc.refreshEntity(ctx, personID); err != nil {
			svc.log.Errorf("profile pull for [%s] failed, rescheduling: %s", personID, err.Error())

			if reErr := svc.queue.schedule(ctx, personID); reErr != nil {
				svc.log.Errorf("failed to reschedule [%s]: %s", personID, reErr.Error())
			}
		}
	}
}

// pull the person's profile and regenerate their activity lists.  the three
// classified profile failures are terminal (logged, not retried); anything
// else bubbles up so the job is rescheduled.
func (svc *serviceContext) refreshEntity(ctx context.Context, personID string) error {
	ent, _, err := svc.store.ensureEntity(ctx, personID)
	if err != nil {
		return err
	}

	profile, err := svc.profile.pull(ent.Username)

	switch {
	case errors.Is(err, errProfileNotFound), errors.Is(err, errProfileAuth), errors.Is(err, errProfileBadRequest):
		svc.log.Warnf("profile pull for [%s] not retried: %s", personID, err.Error())

	case err != nil:
		return err

	default:
		ent.Title = profile.Name
		ent.Institution = profile.Institution

		if encoded, encErr := json.Marshal(profile); encErr == nil {
			ent.Profile = datatypes.JSON(encoded)
		}
	}

	recs, err := svc.store.activitiesByEntity(ctx, personID)
	if err != nil {
		return err
	}

	lists := svc.newListContext().renderLists(recs, personID)

	encoded, err := json.Marshal(lists)
	if err != nil {
		return err
	}

	ent.ActivityLists = datatypes.JSON(encoded)

	if err := svc.store.saveEntity(ctx, ent); err != nil {
		return err
	}

	svc.log.Infof("refreshed entity [%s] (%d activities)", personID, len(recs))

	return nil
}
