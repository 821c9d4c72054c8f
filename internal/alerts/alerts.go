// Package alerts e-mails operators when telemetry crosses a configured threshold.
package alerts

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/AgroXSat/groundstation-services/internal/appconfig"
	"github.com/AgroXSat/groundstation-services/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/rs/zerolog"
)

const (
	KindLowBattery      = "low_battery"
	KindLowTemperature  = "low_temperature"
	KindHighTemperature = "high_temperature"
)

// EmailClient is the subset of the SES client used to send alerts.
type EmailClient interface {
	SendEmail(ctx context.Context, input *sesv2.SendEmailInput, opts ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Alert is a single threshold breach.
type Alert struct {
	Kind        string
	SatelliteID string
	Value       float64
	Threshold   float64
	RecordedAt  time.Time
}

func (a Alert) subject() string {
	return fmt.Sprintf("[%s] %s", a.SatelliteID, strings.ReplaceAll(a.Kind, "_", " "))
}

func (a Alert) body() string {
	return fmt.Sprintf("Satellite %s reported %s at %s.\nValue: %.2f\nThreshold: %.2f\n",
		a.SatelliteID, strings.ReplaceAll(a.Kind, "_", " "),
		a.RecordedAt.UTC().Format(time.RFC3339), a.Value, a.Threshold)
}

// Evaluate returns the thresholds a frame breaches. Zero thresholds are disabled.
func Evaluate(cfg appconfig.AlertsConfig, t models.Telemetry) []Alert {
	var out []Alert
	if cfg.MinBatteryVoltage > 0 && t.BatteryVoltage < cfg.MinBatteryVoltage {
		out = append(out, Alert{Kind: KindLowBattery, Value: t.BatteryVoltage, Threshold: cfg.MinBatteryVoltage})
	}
	if cfg.MinTemperature != 0 && t.Temperature < cfg.MinTemperature {
		out = append(out, Alert{Kind: KindLowTemperature, Value: t.Temperature, Threshold: cfg.MinTemperature})
	}
	if cfg.MaxTemperature != 0 && t.Temperature > cfg.MaxTemperature {
		out = append(out, Alert{Kind: KindHighTemperature, Value: t.Temperature, Threshold: cfg.MaxTemperature})
	}
	for i := range out {
		out[i].SatelliteID = t.SatelliteID
		out[i].RecordedAt = t.RecordedAt
	}
	return out
}

// Notifier sends alert e-mails, at most one per satellite and kind per cooldown.
type Notifier struct {
	client   EmailClient
	from     string
	to       []string
	cooldown time.Duration
	now      func() time.Time

	mu   sync.Mutex
	last map[string]time.Time
}

func NewNotifier(client EmailClient, from string, to []string, cooldown time.Duration) *Notifier {
	return &Notifier{
		client:   client,
		from:     from,
		to:       to,
		cooldown: cooldown,
		now:      time.Now,
		last:     make(map[string]time.Time),
	}
}

// Notify sends an e-mail for each alert not inside its cooldown window.
// It returns the number of e-mails sent.
func (n *Notifier) Notify(ctx context.Context, alerts []Alert) (int, error) {
	logger := zerolog.Ctx(ctx)
	sent := 0
	for _, a := range alerts {
		if !n.claim(a) {
			logger.Debug().Str("kind", a.Kind).Str("satellite_id", a.SatelliteID).Msg("Alert suppressed by cooldown")
			continue
		}
		if err := n.send(ctx, a); err != nil {
			n.release(a)
			return sent, err
		}
		logger.Info().Str("kind", a.Kind).Str("satellite_id", a.SatelliteID).Msg("Alert e-mail sent")
		sent++
	}
	return sent, nil
}

func (n *Notifier) key(a Alert) string {
	return a.SatelliteID + "/" + a.Kind
}

func (n *Notifier) claim(a Alert) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	now := n.now()
	if last, ok := n.last[n.key(a)]; ok && now.Sub(last) < n.cooldown {
		return false
	}
	n.last[n.key(a)] = now
	return true
}

// release lets the next breach retry after a failed send.
func (n *Notifier) release(a Alert) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.last, n.key(a))
}

func (n *Notifier) send(ctx context.Context, a Alert) error {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(n.from),
		Destination: &types.Destination{
			ToAddresses: n.to,
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(a.subject())},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(a.body())},
				},
			},
		},
	}
	if _, err := n.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send %s alert: %w", a.Kind, err)
	}
	return nil
}
