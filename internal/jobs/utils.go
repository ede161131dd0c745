package jobs

import (
	"errors"
	"math/rand/v2"

	"github.com/fsdevblog/bundle-reconciler/internal/domain"
)

// jitter возвращает число, рассыпавшееся относительно value на случайный процент в пределах
// [1-minPercent, 1+maxPercent].
// Например, если minPercent=0.15, maxPercent=0.15, получим диапазон [0.85*value, 1.15*value].
//
// minPercent и maxPercent должны быть >= 0 (0.1 = 10%). Если указано иное, значение выставится в 0.15.
func jitter(value, minPercent, maxPercent float64) float64 {
	if minPercent < 0 || maxPercent < 0 {
		minPercent = 0.15
		maxPercent = 0.15
	}
	factor := 1 - minPercent + rand.Float64()*(minPercent+maxPercent) // nolint:gosec
	return value * factor
}

// isConflict сообщает, что заказ успел измениться и обновление не требуется.
func isConflict(err error) bool {
	return errors.Is(err, domain.ErrStatusConflict) || errors.Is(err, domain.ErrTerminalStatus)
}
