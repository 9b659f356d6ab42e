package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/gosight/gosight/tracer/internal/config"
	"github.com/gosight/gosight/tracer/internal/model"
)

// ClickHouse writes each record as one row of the trace table.
type ClickHouse struct {
	conn  driver.Conn
	table string
}

// TraceRow is the flattened column set of a record.
type TraceRow struct {
	TraceID       string
	AppID         string
	PageID        string
	TraceType     string
	Level         string
	CreatedAt     time.Time
	DataID        int32
	DataType      string
	Name          string
	Message       string
	URL           string
	PageRoute     string
	Browser       string
	OS            string
	DeviceType    string
	Online        uint8
	EffectiveType string
	FingerprintID string
	UserID        string
	Payload       string
}

func NewClickHouse(ctx context.Context, cfg config.ClickHouseConfig) (*ClickHouse, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{cfg.Addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		MaxOpenConns: cfg.MaxOpenConns,
		MaxIdleConns: cfg.MaxIdleConns,
	})
	if err != nil {
		return nil, fmt.Errorf("transport: clickhouse open: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("transport: clickhouse ping: %w", err)
	}

	return &ClickHouse{conn: conn, table: cfg.Table}, nil
}

// NewTraceRow flattens rec. The full record is kept as JSON in Payload.
func NewTraceRow(rec model.TraceRecord) (TraceRow, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return TraceRow{}, fmt.Errorf("transport: encode %s: %w", rec.TraceID, err)
	}

	row := TraceRow{
		TraceID:       rec.TraceID,
		AppID:         rec.AppID,
		PageID:        rec.PageID,
		TraceType:     string(rec.Type),
		Level:         string(rec.Level),
		CreatedAt:     time.UnixMilli(rec.CreatedAt).UTC(),
		URL:           rec.URL,
		PageRoute:     rec.PageRoute,
		Browser:       rec.UA.Browser,
		OS:            rec.UA.OS,
		DeviceType:    rec.UA.DeviceType,
		EffectiveType: string(rec.Connection.EffectiveType),
		FingerprintID: rec.UserInfo.FingerprintID,
		UserID:        rec.UserInfo.UserID,
		Payload:       string(payload),
	}
	if rec.Connection.Online {
		row.Online = 1
	}
	if rec.Data != nil {
		base := rec.Data.Base()
		row.DataID = base.DataID
		row.DataType = string(base.Type)
		row.Name = base.Name
		row.Message = base.Message
	} else if rec.Perf != nil {
		row.Name = "web-vitals"
	}
	return row, nil
}

func (c *ClickHouse) Send(ctx context.Context, rec model.TraceRecord) error {
	row, err := NewTraceRow(rec)
	if err != nil {
		return err
	}

	return c.conn.Exec(ctx, `
		INSERT INTO `+c.table+` (
			trace_id, app_id, page_id, trace_type, level, created_at,
			data_id, data_type, name, message,
			url, page_route, browser, os, device_type,
			online, effective_type, fp_id, user_id, payload
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		row.TraceID, row.AppID, row.PageID, row.TraceType, row.Level, row.CreatedAt,
		row.DataID, row.DataType, row.Name, row.Message,
		row.URL, row.PageRoute, row.Browser, row.OS, row.DeviceType,
		row.Online, row.EffectiveType, row.FingerprintID, row.UserID, row.Payload,
	)
}

func (c *ClickHouse) Close() error {
	return c.conn.Close()
}
