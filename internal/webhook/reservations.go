package webhook

import (
	"context"
	"regexp"
	"sort"
	"strings"

	apperrors "lumina/pkg/errors"
	"lumina/pkg/logger"
	"lumina/pkg/model"
)

const missingField = "-"

var leadingYear = regexp.MustCompile(`^\d{4}[.-]`)

// ReservationsClient fetches the shared reservation table from the
// workflow webhook and normalizes it into canonical rows.
type ReservationsClient struct {
	client    *Client
	webhookID string
	log       *logger.Logger
}

func NewReservationsClient(client *Client, webhookID string, log *logger.Logger) *ReservationsClient {
	return &ReservationsClient{
		client:    client,
		webhookID: webhookID,
		log:       log,
	}
}

// reservationRecord is the union of the two upstream response shapes:
// the workflow emits either English or Korean field names depending on
// which sheet produced the row.
type reservationRecord struct {
	RoomNum   string `json:"roomnum"`
	RoomKo    string `json:"창의실"`
	Date      string `json:"date"`
	DateKo    string `json:"날짜"`
	Time      string `json:"time"`
	TimeKo    string `json:"시간"`
	User      string `json:"User"`
	StudentKo string `json:"학번"`
	Name      string `json:"name"`
	NameKo    string `json:"이름"`
}

// Fetch returns the normalized reservation rows sorted by room, then
// date, then time. The endpoint answers with either a bare array or a
// {data:[...]} wrapper; both are accepted.
func (c *ReservationsClient) Fetch(ctx context.Context) ([]model.ReservationRow, error) {
	resp, err := c.client.Get(ctx, "/webhook/"+c.webhookID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeUnavailable, "Failed to fetch reservations", 503)
	}
	if resp.StatusCode >= 400 {
		c.log.Warn("Reservation webhook returned error status", "status", resp.StatusCode)
		return nil, apperrors.Unavailable("Reservation webhook")
	}

	records, err := decodeRecords(resp)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "Failed to decode reservations", 502)
	}

	rows := make([]model.ReservationRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, rec.normalize())
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Room != rows[j].Room {
			return rows[i].Room < rows[j].Room
		}
		if rows[i].Date != rows[j].Date {
			return rows[i].Date < rows[j].Date
		}
		return rows[i].Time < rows[j].Time
	})

	return rows, nil
}

func decodeRecords(resp *Response) ([]reservationRecord, error) {
	var records []reservationRecord
	if err := resp.DecodeJSON(&records); err == nil {
		return records, nil
	}

	var wrapped struct {
		Data []reservationRecord `json:"data"`
	}
	if err := resp.DecodeJSON(&wrapped); err != nil {
		return nil, err
	}
	return wrapped.Data, nil
}

// normalize maps whichever alias set the record carries onto the
// canonical row, trimming the year off dates (YYYY.MM.DD -> MM.DD) and
// parenthesized detail off time labels.
func (r reservationRecord) normalize() model.ReservationRow {
	return model.ReservationRow{
		Room:      firstNonEmpty(r.RoomNum, r.RoomKo),
		Date:      formatDate(firstNonEmpty(r.Date, r.DateKo)),
		Time:      formatTime(firstNonEmpty(r.Time, r.TimeKo)),
		StudentID: firstNonEmpty(r.User, r.StudentKo),
		Name:      firstNonEmpty(r.Name, r.NameKo),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return missingField
}

func formatDate(date string) string {
	if date == missingField || len(date) <= 5 {
		return date
	}
	return leadingYear.ReplaceAllString(date, "")
}

func formatTime(t string) string {
	if t == missingField {
		return t
	}
	return strings.TrimSpace(strings.SplitN(t, "(", 2)[0])
}
