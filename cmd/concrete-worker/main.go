// Copyright (c) 2026, Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command concrete-worker runs a pool of workers applying leveled
// homomorphic operations to stored ciphertext blobs. Jobs arrive on a Redis
// queue and reference operands by content handle; none of the supported
// operations require a secret key. Keyswitch jobs use a keyswitching key
// loaded from disk at startup.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/concrete-go/concrete"
	"github.com/concrete-go/concrete/internal/queue"
	"github.com/concrete-go/concrete/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		numWorkers  = flag.Int("workers", 4, "number of worker goroutines")
		redisAddr   = flag.String("redis", "localhost:6379", "Redis address")
		redisDB     = flag.Int("redis-db", 0, "Redis database number")
		queueName   = flag.String("queue", "default", "queue name")
		storagePath = flag.String("storage", "/tmp/concrete-storage", "ciphertext blob storage path")
		kskPath     = flag.String("ksk", "", "keyswitching key file (enables keyswitch jobs)")
		metricsAddr = flag.String("metrics", ":9090", "metrics server address")
	)
	flag.Parse()

	log.Printf("concrete-worker starting")
	log.Printf("  workers: %d", *numWorkers)
	log.Printf("  redis: %s", *redisAddr)
	log.Printf("  storage: %s", *storagePath)

	q, err := queue.NewRedisQueue(queue.RedisConfig{
		Addr: *redisAddr,
		DB:   *redisDB,
	}, *queueName)
	if err != nil {
		return fmt.Errorf("create queue: %w", err)
	}
	defer q.Close()

	store, err := storage.NewFileStorage(*storagePath)
	if err != nil {
		return fmt.Errorf("create storage: %w", err)
	}

	var ksk *concrete.LWEKSK
	if *kskPath != "" {
		ksk, err = concrete.LoadLWEKSK(*kskPath)
		if err != nil {
			return fmt.Errorf("load keyswitching key: %w", err)
		}
		log.Printf("  keyswitch: %d -> %d", ksk.DimensionBefore(), ksk.DimensionAfter())
	}

	pool := &WorkerPool{
		numWorkers: *numWorkers,
		queue:      q,
		storage:    store,
		ksk:        ksk,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := pool.Start(ctx); err != nil {
		return fmt.Errorf("start workers: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "# HELP concrete_jobs_total Total homomorphic jobs processed\n")
		fmt.Fprintf(w, "# TYPE concrete_jobs_total counter\n")
		fmt.Fprintf(w, "concrete_jobs_total{status=\"success\"} %d\n", pool.successCount.Load())
		fmt.Fprintf(w, "concrete_jobs_total{status=\"failure\"} %d\n", pool.failureCount.Load())
	})

	server := &http.Server{Addr: *metricsAddr, Handler: mux}
	go func() {
		log.Printf("metrics server on %s", *metricsAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("received signal: %s", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("metrics server shutdown error: %v", err)
	}
	if err := pool.Stop(); err != nil {
		log.Printf("worker pool shutdown error: %v", err)
	}
	log.Println("shutdown complete")
	return nil
}

// WorkerPool manages a pool of homomorphic computation workers.
type WorkerPool struct {
	numWorkers   int
	queue        queue.Queue
	storage      storage.Storage
	ksk          *concrete.LWEKSK
	wg           sync.WaitGroup
	cancel       context.CancelFunc
	running      atomic.Bool
	successCount atomic.Int64
	failureCount atomic.Int64
}

// Start launches the worker goroutines.
func (p *WorkerPool) Start(ctx context.Context) error {
	if p.running.Load() {
		return errors.New("pool already running")
	}

	ctx, p.cancel = context.WithCancel(ctx)
	p.running.Store(true)
	log.Printf("starting %d workers", p.numWorkers)

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
	return nil
}

// Stop gracefully stops the worker pool.
func (p *WorkerPool) Stop() error {
	if !p.running.Load() {
		return nil
	}
	p.cancel()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(30 * time.Second):
		return errors.New("shutdown timeout")
	}
	p.running.Store(false)
	return nil
}

func (p *WorkerPool) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, err := p.queue.Pop(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			log.Printf("worker %d: pop job: %v", id, err)
			time.Sleep(time.Second)
			continue
		}
		p.processJob(ctx, id, job)
	}
}

func (p *WorkerPool) processJob(ctx context.Context, workerID int, job *queue.Job) {
	log.Printf("worker %d: job %s (%s)", workerID, job.ID, job.Op)

	job.Status = queue.StatusProcessing
	if err := p.queue.Update(ctx, job); err != nil {
		log.Printf("worker %d: update job status: %v", workerID, err)
	}

	result, err := p.execute(ctx, job)
	if err != nil {
		p.fail(ctx, job, err)
		return
	}

	data, err := result.MarshalBinary()
	if err != nil {
		p.fail(ctx, job, fmt.Errorf("marshal result: %w", err))
		return
	}
	handle, err := p.storage.Store(ctx, data)
	if err != nil {
		p.fail(ctx, job, fmt.Errorf("store result: %w", err))
		return
	}

	job.Status = queue.StatusCompleted
	job.ResultHandle = string(handle)
	if err := p.queue.Update(ctx, job); err != nil {
		log.Printf("worker %d: update job result: %v", workerID, err)
	}
	p.successCount.Add(1)
}

func (p *WorkerPool) execute(ctx context.Context, job *queue.Job) (*concrete.LWE, error) {
	lhs, err := p.loadLWE(ctx, job.LHSHandle)
	if err != nil {
		return nil, fmt.Errorf("load lhs: %w", err)
	}

	switch job.Op {
	case queue.OpAddPadding, queue.OpSubPadding:
		rhs, err := p.loadLWE(ctx, job.RHSHandle)
		if err != nil {
			return nil, fmt.Errorf("load rhs: %w", err)
		}
		if job.Op == queue.OpAddPadding {
			return lhs.AddWithPadding(rhs)
		}
		return lhs.SubWithPadding(rhs)
	case queue.OpAddConstant:
		return lhs.AddConstantDynamicEncoder(job.Constant)
	case queue.OpMulConstant:
		return lhs.MulConstantStaticEncoder(int32(job.Constant))
	case queue.OpOpposite:
		return lhs.Opposite()
	case queue.OpKeyswitch:
		if p.ksk == nil {
			return nil, errors.New("no keyswitching key configured")
		}
		return lhs.Keyswitch(p.ksk)
	default:
		return nil, fmt.Errorf("unsupported operation: %s", job.Op)
	}
}

func (p *WorkerPool) loadLWE(ctx context.Context, handle string) (*concrete.LWE, error) {
	data, err := p.storage.Load(ctx, storage.Handle(handle))
	if err != nil {
		return nil, err
	}
	ct := new(concrete.LWE)
	if err := ct.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return ct, nil
}

func (p *WorkerPool) fail(ctx context.Context, job *queue.Job, err error) {
	job.Status = queue.StatusFailed
	job.Error = err.Error()
	if uerr := p.queue.Update(ctx, job); uerr != nil {
		log.Printf("update failed job %s: %v", job.ID, uerr)
	}
	p.failureCount.Add(1)
}
