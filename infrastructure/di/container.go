package di

import (
	"clubmanager/application/delivery"
	"clubmanager/application/ports"
	"clubmanager/application/services"
	"clubmanager/infrastructure/config"
	apperrors "clubmanager/pkg/errors"
	"clubmanager/pkg/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config        *config.Config
	Logger        *zap.Logger
	Membership    *services.MembershipService
	Notifications *services.NotificationService
	Forwarder     *services.MemberEventForwarder
	Consumer      *delivery.BatchConsumer
	Metrics       ports.MetricsRecorder
	Tracer        *observability.Tracer
	ErrorHandler  *apperrors.ErrorHandler
}
