package service

import "time"

type options struct {
	now func() time.Time
}

func defaultOptions() options {
	return options{now: time.Now}
}

type Option func(*options)

// WithClock 替換目前時間來源，測試時用來固定狀態計算的時間點
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
