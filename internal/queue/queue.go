// Copyright (c) 2026, Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package queue provides a Redis-backed job queue for leveled homomorphic
// operations on stored ciphertext blobs. Jobs reference operands by storage
// handle; the operations they name never require a secret key.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrQueueEmpty  = errors.New("queue is empty")
	ErrJobNotFound = errors.New("job not found")
)

// Op names a leveled operation a worker can apply to stored ciphertexts.
type Op string

const (
	// OpAddPadding adds two ciphertexts, consuming one padding bit.
	OpAddPadding Op = "add_padding"
	// OpSubPadding subtracts RHS from LHS, consuming one padding bit.
	OpSubPadding Op = "sub_padding"
	// OpAddConstant adds a cleartext constant without touching the encoder.
	OpAddConstant Op = "add_constant"
	// OpMulConstant multiplies by a small cleartext integer.
	OpMulConstant Op = "mul_constant"
	// OpOpposite negates the ciphertext.
	OpOpposite Op = "opposite"
	// OpKeyswitch switches the ciphertext to the worker's configured key.
	OpKeyswitch Op = "keyswitch"
)

// JobStatus represents the state of a job.
type JobStatus uint8

const (
	StatusPending JobStatus = iota
	StatusProcessing
	StatusCompleted
	StatusFailed
)

// Job is one homomorphic operation request. LHSHandle always names the first
// operand blob; RHSHandle is set for the two-ciphertext operations and
// Constant for the cleartext ones.
type Job struct {
	ID           string    `json:"id"`
	Op           Op        `json:"op"`
	LHSHandle    string    `json:"lhs_handle"`
	RHSHandle    string    `json:"rhs_handle,omitempty"`
	Constant     float64   `json:"constant,omitempty"`
	ResultHandle string    `json:"result_handle,omitempty"`
	Status       JobStatus `json:"status"`
	Error        string    `json:"error,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Queue defines the job queue operations.
type Queue interface {
	// Push adds a job to the queue.
	Push(ctx context.Context, job *Job) error
	// Pop blocks until a job is available and removes it from the queue.
	Pop(ctx context.Context) (*Job, error)
	// Update persists a job's status fields.
	Update(ctx context.Context, job *Job) error
	// Get retrieves a job by ID.
	Get(ctx context.Context, id string) (*Job, error)
	// Close closes the queue connection.
	Close() error
}

// RedisQueue implements Queue on a Redis list plus per-job status keys.
type RedisQueue struct {
	client    *redis.Client
	queueKey  string
	jobPrefix string
	jobTTL    time.Duration
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisQueue connects to Redis and namespaces the queue under name.
func NewRedisQueue(cfg RedisConfig, name string) (*RedisQueue, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisQueue{
		client:    client,
		queueKey:  "concrete:queue:" + name,
		jobPrefix: "concrete:job:",
		jobTTL:    24 * time.Hour,
	}, nil
}

func (q *RedisQueue) Push(ctx context.Context, job *Job) error {
	job.CreatedAt = time.Now()
	job.UpdatedAt = job.CreatedAt
	job.Status = StatusPending

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}

	pipe := q.client.Pipeline()
	pipe.Set(ctx, q.jobPrefix+job.ID, data, q.jobTTL)
	pipe.LPush(ctx, q.queueKey, job.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("push job: %w", err)
	}
	return nil
}

func (q *RedisQueue) Pop(ctx context.Context) (*Job, error) {
	result, err := q.client.BRPop(ctx, 0, q.queueKey).Result()
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("pop job: %w", err)
	}
	if len(result) < 2 {
		return nil, ErrQueueEmpty
	}
	return q.Get(ctx, result[1])
}

func (q *RedisQueue) Update(ctx context.Context, job *Job) error {
	job.UpdatedAt = time.Now()

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := q.client.Set(ctx, q.jobPrefix+job.ID, data, q.jobTTL).Err(); err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	return nil
}

func (q *RedisQueue) Get(ctx context.Context, id string) (*Job, error) {
	data, err := q.client.Get(ctx, q.jobPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("get job: %w", err)
	}

	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("unmarshal job: %w", err)
	}
	return &job, nil
}

func (q *RedisQueue) Close() error {
	return q.client.Close()
}
