package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-absence-api/internal/models"
)

// ErrInvalidSheetURL is returned for URLs that point at the script editor
// instead of a deployed web app.
var ErrInvalidSheetURL = errors.New("sheet url must be a deployed web app url ending in /exec")

const maxSheetResponse = 32 << 20

// SheetRepository talks to the spreadsheet web app that stores the roster
// and the absence history.
type SheetRepository struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// ValidateSheetURL rejects editor and project URLs.
func ValidateSheetURL(raw string) error {
	if strings.Contains(raw, "/edit") || strings.Contains(raw, "script.google.com/home") || !strings.Contains(raw, "/exec") {
		return ErrInvalidSheetURL
	}
	return nil
}

// NewSheetRepository constructs a repository for the given web app URL.
func NewSheetRepository(url string, timeout time.Duration, logger *zap.Logger) (*SheetRepository, error) {
	url = strings.TrimSpace(url)
	if err := ValidateSheetURL(url); err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SheetRepository{url: url, client: &http.Client{Timeout: timeout}, logger: logger}, nil
}

// Kind reports the data source kind.
func (r *SheetRepository) Kind() models.DataSourceKind {
	return models.DataSourceLive
}

// Fetch loads students and attendance in one request.
func (r *SheetRepository) Fetch(ctx context.Context) (*models.SchoolData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build sheet request: %w", err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch sheet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch sheet: unexpected status %d", resp.StatusCode)
	}

	var data models.SchoolData
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxSheetResponse)).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode sheet payload: %w", err)
	}
	if data.Students == nil {
		data.Students = []models.Student{}
	}
	if data.Attendance == nil {
		data.Attendance = []models.AttendanceRecord{}
	}
	return &data, nil
}

type savePayload struct {
	Records []models.AttendanceRecord `json:"records"`
}

type deletePayload struct {
	Action    string `json:"action"`
	StudentID string `json:"studentId"`
	Date      string `json:"date"`
}

type sheetReply struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// SaveAttendance appends a batch of absence records.
func (r *SheetRepository) SaveAttendance(ctx context.Context, records []models.AttendanceRecord) error {
	return r.post(ctx, savePayload{Records: records})
}

// DeleteAttendance removes one absence row for the student on the date.
func (r *SheetRepository) DeleteAttendance(ctx context.Context, studentID, date string) error {
	return r.post(ctx, deletePayload{Action: "delete", StudentID: studentID, Date: date})
}

func (r *SheetRepository) post(ctx context.Context, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal sheet payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build sheet request: %w", err)
	}
	// text/plain keeps the web app from demanding a CORS preflight
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("post sheet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("post sheet: unexpected status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxSheetResponse))
	if err != nil {
		return fmt.Errorf("read sheet reply: %w", err)
	}
	var reply sheetReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		// the web app sometimes answers with an HTML redirect page; success is judged by status code then
		r.logger.Debug("sheet reply is not json", zap.Int("bytes", len(raw)))
		return nil
	}
	if strings.EqualFold(reply.Status, "error") {
		return fmt.Errorf("sheet rejected request: %s", reply.Message)
	}
	return nil
}
