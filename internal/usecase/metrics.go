package usecase

import (
	"FXPulse/internal/domain/models"
	domrepo "FXPulse/internal/domain/repository"
)

type noopMetrics struct{}

var _ domrepo.Metrics = noopMetrics{}

func (noopMetrics) RecordSignal(string, models.Recommendation, int) {}
func (noopMetrics) RecordInsufficientData(string)                   {}
func (noopMetrics) RecordNewsIngested(string)                       {}
func (noopMetrics) RecordCacheResult(string, bool)                  {}
func (noopMetrics) RecordError(string)                              {}
func (noopMetrics) RecordLatency(string, float64)                   {}
