package services

import (
	"campushub/internal/apperr"
	"campushub/internal/repository"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/streadway/amqp"
)

const (
	cleanupQueueName   = "blob.cleanup"
	defaultMaxAttempts = 5
)

// BlobCleanupJob is one blob-deletion retry, published to RabbitMQ when a
// broker is configured so retries survive a restart.
type BlobCleanupJob struct {
	BlobID   uint `json:"blob_id"`
	Attempts int  `json:"attempts"`
}

// CleanupWorker retries blob deletions that failed during a cascade.
// Cascade deletion itself stays best-effort and synchronous; this worker
// only exists so a transient storage failure does not turn into a
// permanently orphaned blob.
type CleanupWorker struct {
	blobs repository.BlobRepository

	jobQueue    chan BlobCleanupJob
	workerCount int
	stopChan    chan struct{}
	wg          sync.WaitGroup
	running     bool
	mu          sync.RWMutex

	conn    *amqp.Connection
	channel *amqp.Channel

	maxAttempts int
	retryDelay  time.Duration
}

func NewCleanupWorker(blobs repository.BlobRepository, workerCount int) *CleanupWorker {
	if workerCount <= 0 {
		workerCount = 2
	}
	return &CleanupWorker{
		blobs:       blobs,
		jobQueue:    make(chan BlobCleanupJob, 100),
		workerCount: workerCount,
		stopChan:    make(chan struct{}),
		maxAttempts: defaultMaxAttempts,
		retryDelay:  30 * time.Second,
	}
}

func (w *CleanupWorker) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	if err := w.setupRabbitMQ(); err != nil {
		log.Printf("Blob cleanup running without RabbitMQ (%v); retries stay in-process", err)
	}

	for i := 0; i < w.workerCount; i++ {
		w.wg.Add(1)
		go w.worker()
	}
}

func (w *CleanupWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	if w.channel != nil {
		w.channel.Close()
	}
	if w.conn != nil {
		w.conn.Close()
	}

	close(w.stopChan)
	w.wg.Wait()
}

// Enqueue schedules a blob for deletion retry. Never blocks; if both the
// broker and the local queue are unavailable the job is dropped with a
// log line (the blob stays orphaned but harmless).
func (w *CleanupWorker) Enqueue(blobID uint) {
	job := BlobCleanupJob{BlobID: blobID, Attempts: 0}
	if w.publish(job) {
		return
	}
	select {
	case w.jobQueue <- job:
	default:
		log.Printf("Cleanup queue full, dropping retry for blob %d", blobID)
	}
}

func (w *CleanupWorker) setupRabbitMQ() error {
	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		return fmt.Errorf("RABBITMQ_URL not set")
	}

	var err error
	w.conn, err = amqp.Dial(url)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %v", err)
	}

	w.channel, err = w.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %v", err)
	}

	_, err = w.channel.QueueDeclare(
		cleanupQueueName, // name
		true,             // durable
		false,            // delete when unused
		false,            // exclusive
		false,            // no-wait
		nil,              // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %v", err)
	}

	msgs, err := w.channel.Consume(
		cleanupQueueName,   // queue
		"cleanup_consumer", // consumer tag
		false,              // auto-ack
		false,              // exclusive
		false,              // no-local
		false,              // no-wait
		nil,                // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %v", err)
	}

	w.wg.Add(1)
	go w.consume(msgs)
	return nil
}

func (w *CleanupWorker) consume(msgs <-chan amqp.Delivery) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			var job BlobCleanupJob
			if err := json.Unmarshal(msg.Body, &job); err != nil {
				msg.Nack(false, false)
				continue
			}
			w.process(job)
			_ = msg.Ack(false)
		}
	}
}

func (w *CleanupWorker) worker() {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			return
		case job := <-w.jobQueue:
			w.process(job)
		}
	}
}

func (w *CleanupWorker) process(job BlobCleanupJob) {
	err := w.blobs.Delete(job.BlobID)
	if err == nil || errors.Is(err, apperr.ErrNotFound) {
		return
	}

	job.Attempts++
	if job.Attempts >= w.maxAttempts {
		log.Printf("Giving up on blob %d after %d attempts: %v", job.BlobID, job.Attempts, err)
		return
	}
	log.Printf("Blob %d deletion failed (attempt %d): %v", job.BlobID, job.Attempts, err)

	time.AfterFunc(w.retryDelay, func() {
		if w.publish(job) {
			return
		}
		select {
		case w.jobQueue <- job:
		case <-w.stopChan:
		}
	})
}

func (w *CleanupWorker) publish(job BlobCleanupJob) bool {
	if w.channel == nil {
		return false
	}
	body, err := json.Marshal(job)
	if err != nil {
		return false
	}
	err = w.channel.Publish(
		"",               // exchange
		cleanupQueueName, // routing key
		false,            // mandatory
		false,            // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		log.Printf("Failed to publish cleanup job for blob %d: %v", job.BlobID, err)
		return false
	}
	return true
}
