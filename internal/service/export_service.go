package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/doorlist/doorlist/internal/domain"
	"github.com/doorlist/doorlist/internal/repo/postgres"
)

type ExportService interface {
	// ExportCSV materializes the event's guest list as CSV. With a nil or
	// empty field filter the column set is derived from the first guest
	// record; an event with no guests yields an empty document.
	ExportCSV(ctx context.Context, eventID int64, fields []string) ([]byte, error)
}

type exportService struct {
	guests postgres.GuestRepo
	events postgres.EventRepo
}

func NewExportService(guests postgres.GuestRepo, eventRepo postgres.EventRepo) ExportService {
	return &exportService{guests: guests, events: eventRepo}
}

// baseColumns is the declared order of built-in guest columns in a record.
var baseColumns = []string{
	"id", "eventId", "firstName", "lastName", "email", "phone",
	"checkInStatus", "checkInTime", "createdAt", "updatedAt",
}

func (s *exportService) ExportCSV(ctx context.Context, eventID int64, fields []string) ([]byte, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	guests, err := s.guests.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list guests: %w", err)
	}

	var descriptors []domain.FieldDescriptor
	if event != nil {
		descriptors = event.CustomFieldDescriptors()
	}

	columns := fields
	if len(columns) == 0 {
		if len(guests) == 0 {
			return nil, nil
		}
		columns = recordKeys(&guests[0], descriptors)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(columns); err != nil {
		return nil, err
	}
	for i := range guests {
		record := flattenGuest(&guests[i])
		row := make([]string, len(columns))
		for j, col := range columns {
			row[j] = record[col]
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// recordKeys lists a guest record's column names: the built-in columns in
// declared order, then custom fields in event-descriptor order, then any
// answers left over from an older descriptor set, sorted for stability.
func recordKeys(g *domain.Guest, descriptors []domain.FieldDescriptor) []string {
	keys := append([]string{}, baseColumns...)

	seen := make(map[string]struct{})
	for _, fd := range descriptors {
		if _, ok := g.CustomFields[fd.Name]; ok {
			keys = append(keys, fd.Name)
			seen[fd.Name] = struct{}{}
		}
	}

	var extra []string
	for name := range g.CustomFields {
		if _, ok := seen[name]; !ok {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)

	return append(keys, extra...)
}

func flattenGuest(g *domain.Guest) map[string]string {
	record := map[string]string{
		"id":            strconv.FormatInt(g.ID, 10),
		"eventId":       strconv.FormatInt(g.EventID, 10),
		"firstName":     g.FirstName,
		"lastName":      g.LastName,
		"email":         g.Email,
		"phone":         g.Phone,
		"checkInStatus": strconv.FormatBool(g.CheckInStatus),
		"createdAt":     g.CreatedAt.Format(time.RFC3339),
		"updatedAt":     g.UpdatedAt.Format(time.RFC3339),
	}
	if g.CheckInTime != nil {
		record["checkInTime"] = g.CheckInTime.Format(time.RFC3339)
	} else {
		record["checkInTime"] = ""
	}
	for name, value := range g.CustomFields {
		record[name] = formatAnswer(value)
	}
	return record
}

func formatAnswer(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}
