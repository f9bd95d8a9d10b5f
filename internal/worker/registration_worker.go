package worker

import (
	"context"
	"sync"

	"campus-event-portal/internal/queue"
	"campus-event-portal/internal/service"
	"campus-event-portal/pkg/logger"

	"go.uber.org/zap"
)

type RegistrationWorker interface {
	// Start 訂閱報名隊列並在背景處理，ctx 結束後停止
	Start(ctx context.Context) error
	// Wait 等待背景處理結束
	Wait()
}

type RegistrationWorkerImpl struct {
	service     service.RegistrationService
	queue       queue.RegistrationQueue
	concurrency int
	wg          sync.WaitGroup
}

func NewRegistrationWorker(service service.RegistrationService, queue queue.RegistrationQueue, concurrency int) RegistrationWorker {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &RegistrationWorkerImpl{
		service:     service,
		queue:       queue,
		concurrency: concurrency,
	}
}

func (w *RegistrationWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.SubscribeRegistrations(ctx)
	if err != nil {
		return err
	}

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			for msg := range msgs {
				w.handle(ctx, msg)
			}
		}()
	}
	return nil
}

func (w *RegistrationWorkerImpl) handle(ctx context.Context, msg queue.Delivery) {
	if err := w.service.DispatchRegistration(ctx, msg.Data); err != nil {
		// Redis 暫時失敗，留給隊列重試
		logger.WithComponent("worker").Warn("dispatch registration failed",
			zap.String("registration_id", msg.Data.RegistrationID.String()),
			zap.Error(err),
		)
		msg.Nack(true)
		return
	}
	msg.Ack()
}

func (w *RegistrationWorkerImpl) Wait() {
	w.wg.Wait()
}
