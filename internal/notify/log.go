package notify

import (
	"context"

	"neoshop/internal/logger"
	"neoshop/internal/order"

	"go.uber.org/zap"
)

// Log writes every outcome to the structured log. Confirmations are
// answered with a fixed policy.
type Log struct {
	AutoConfirm bool
}

func (l *Log) Success(ctx context.Context, title string) {
	logger.FromCtx(ctx).Info("notify success", zap.String("title", title))
}

func (l *Log) Info(ctx context.Context, title, text string) {
	logger.FromCtx(ctx).Info("notify info", zap.String("title", title), zap.String("text", text))
}

func (l *Log) ValidationError(ctx context.Context, title, text string) {
	logger.FromCtx(ctx).Warn("notify validation error", zap.String("title", title), zap.String("text", text))
}

func (l *Log) Confirm(ctx context.Context, c Confirmation) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	logger.FromCtx(ctx).Info("notify confirm",
		zap.String("title", c.Title),
		zap.Bool("confirmed", l.AutoConfirm),
	)
	return l.AutoConfirm, nil
}

func (l *Log) OrderSummary(ctx context.Context, o *order.Order) {
	logger.FromCtx(ctx).Info("order confirmed",
		zap.String("order_id", o.ID),
		zap.String("buyer", o.Buyer.Email),
		zap.Int("items", len(o.Items)),
		zap.Float64("total", o.Total),
	)
}
