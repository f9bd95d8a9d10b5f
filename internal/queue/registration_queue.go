package queue

import (
	"context"

	"campus-event-portal/internal/model"
)

type Delivery struct {
	Data *model.RegistrationMessage
	Ack  func()
	Nack func(requeue bool)
}

type RegistrationQueue interface {
	// 發送報名訊息到隊列
	PublishRegistration(ctx context.Context, msg *model.RegistrationMessage) error
	// 訂閱報名隊列
	SubscribeRegistrations(ctx context.Context) (<-chan Delivery, error)
}

type MemoryRegistrationQueue struct {
	// 使用 Go channel 來模擬 MQ 隊列
	ch chan *model.RegistrationMessage
}

func NewMemoryRegistrationQueue(bufferSize int) RegistrationQueue {
	return &MemoryRegistrationQueue{
		ch: make(chan *model.RegistrationMessage, bufferSize),
	}
}

// PublishRegistration buffer 滿時阻塞，直到 ctx 結束
func (q *MemoryRegistrationQueue) PublishRegistration(ctx context.Context, msg *model.RegistrationMessage) error {
	select {
	case q.ch <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MemoryRegistrationQueue) SubscribeRegistrations(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-q.ch:
				if !ok {
					return
				}

				d := Delivery{
					Data: msg,
					Ack:  func() {},
					Nack: func(requeue bool) {
						if !requeue {
							return
						}
						// 不阻塞 worker：buffer 滿時放棄重送
						select {
						case q.ch <- msg:
						default:
						}
					},
				}
				select {
				case out <- d:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
