package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"policy-service/internal/model"
	"policy-service/internal/normalize"
	"policy-service/internal/plate"
	"policy-service/internal/render"
	"policy-service/internal/repository"
)

// VehicleTypes are the vehicle categories printed on the policy.
var VehicleTypes = []string{"A", "B", "C", "D", "E", "F1", "F2", "G"}

type DocumentRenderer interface {
	Render(w io.Writer, doc render.PolicyDocument, opts render.RenderOptions) error
}

// PolicyJournal stores generated policies. *repository.PolicyRepository implements it.
type PolicyJournal interface {
	Create(ctx context.Context, record *model.PolicyRecord) error
	GetByID(ctx context.Context, id string) (*model.PolicyRecord, error)
	List(ctx context.Context, filter repository.PolicyListFilter) ([]model.PolicyRecord, error)
}

type PolicyService struct {
	renderer DocumentRenderer
	journal  PolicyJournal
	fontSize float64
	now      func() time.Time
	log      zerolog.Logger
}

// NewPolicyService wires the renderer and an optional journal (nil disables recording).
func NewPolicyService(renderer DocumentRenderer, journal PolicyJournal, fontSize float64, log zerolog.Logger) *PolicyService {
	return &PolicyService{
		renderer: renderer,
		journal:  journal,
		fontSize: fontSize,
		now:      time.Now,
		log:      log,
	}
}

func (s *PolicyService) WithClock(now func() time.Time) *PolicyService {
	s.now = now
	return s
}

type GenerateInput struct {
	FIO         string
	Address     string
	DateStart   string
	DateEnd     string
	RegNumber   string
	VehicleType string
	BrandModel  string
	FontSize    float64
}

type GeneratedPolicy struct {
	Filename string
	Content  []byte
	// Record is nil when the journal is disabled or failed to store the entry.
	Record *model.PolicyRecord
}

func (s *PolicyService) Generate(ctx context.Context, input GenerateInput) (*GeneratedPolicy, error) {
	required := []struct{ name, value string }{
		{"fio", input.FIO},
		{"address", input.Address},
		{"date_start", input.DateStart},
		{"date_end", input.DateEnd},
		{"reg_number", input.RegNumber},
		{"vehicle_type", input.VehicleType},
		{"brand_model", input.BrandModel},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return nil, fmt.Errorf("%w: field %s is required", ErrInvalidInput, field.name)
		}
	}

	if !isVehicleType(input.VehicleType) {
		return nil, fmt.Errorf("%w: unknown vehicle type %q", ErrInvalidInput, input.VehicleType)
	}

	startDay, startMonth, startYear, err := normalize.ParseDate(input.DateStart)
	if err != nil {
		return nil, fmt.Errorf("%w: date_start: %v", ErrInvalidInput, err)
	}
	endDay, endMonth, endYear, err := normalize.ParseDate(input.DateEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: date_end: %v", ErrInvalidInput, err)
	}

	// ParseDate already validated both values
	startAt, _ := time.Parse(normalize.DateLayout, input.DateStart)
	endAt, _ := time.Parse(normalize.DateLayout, input.DateEnd)
	if endAt.Before(startAt) {
		return nil, fmt.Errorf("%w: date_end is before date_start", ErrInvalidInput)
	}

	fontSize := input.FontSize
	if fontSize == 0 {
		fontSize = s.fontSize
	}

	doc := render.PolicyDocument{
		Holder:      normalizeText(input.FIO),
		Address:     normalizeText(input.Address),
		Start:       render.DateParts{Day: startDay, Month: startMonth, Year: startYear},
		End:         render.DateParts{Day: endDay, Month: endMonth, Year: endYear},
		Plate:       NormalizePlate(input.RegNumber),
		VehicleType: input.VehicleType,
		BrandModel:  normalizeText(input.BrandModel),
	}

	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, doc, render.RenderOptions{FontSize: fontSize}); err != nil {
		return nil, fmt.Errorf("render policy: %w", err)
	}

	generatedAt := s.now()
	policy := &GeneratedPolicy{
		Filename: fmt.Sprintf("policy_%s.pdf", generatedAt.Format("20060102_150405")),
		Content:  buf.Bytes(),
	}

	if s.journal == nil {
		return policy, nil
	}

	record := &model.PolicyRecord{
		ID:          uuid.New(),
		Holder:      doc.Holder,
		Address:     doc.Address,
		StartDate:   startAt,
		EndDate:     endAt,
		PlateNumber: doc.Plate,
		VehicleType: doc.VehicleType,
		BrandModel:  doc.BrandModel,
		Filename:    policy.Filename,
		CreatedAt:   generatedAt,
	}
	// PDF уже готов, ошибка журнала не должна мешать выдаче полиса
	if err := s.journal.Create(ctx, record); err != nil {
		s.log.Warn().Err(err).Str("filename", policy.Filename).Msg("failed to record policy")
		return policy, nil
	}
	policy.Record = record

	return policy, nil
}

func (s *PolicyService) GetRecord(ctx context.Context, id string) (*model.PolicyRecord, error) {
	if s.journal == nil {
		return nil, ErrNotFound
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: invalid policy id", ErrInvalidInput)
	}

	record, err := s.journal.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return record, nil
}

type ListRecordsInput struct {
	PlateNumber string
	From        string
	To          string
	Limit       int
}

func (s *PolicyService) ListRecords(ctx context.Context, input ListRecordsInput) ([]model.PolicyRecord, error) {
	if s.journal == nil {
		return []model.PolicyRecord{}, nil
	}

	filter := repository.PolicyListFilter{Limit: input.Limit}
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	if input.PlateNumber != "" {
		plateNumber := NormalizePlate(input.PlateNumber)
		filter.PlateNumber = &plateNumber
	}
	if input.From != "" {
		from, err := time.Parse(normalize.DateLayout, input.From)
		if err != nil {
			return nil, fmt.Errorf("%w: from must be DD.MM.YYYY", ErrInvalidInput)
		}
		filter.ActiveFrom = &from
	}
	if input.To != "" {
		to, err := time.Parse(normalize.DateLayout, input.To)
		if err != nil {
			return nil, fmt.Errorf("%w: to must be DD.MM.YYYY", ErrInvalidInput)
		}
		filter.ActiveTo = &to
	}

	return s.journal.List(ctx, filter)
}

// NormalizePlate turns a registration number into the form printed on the policy.
func NormalizePlate(raw string) string {
	return normalize.FormatPlateRegion(normalize.TransliteratePlate(plate.Clean(raw)))
}

func normalizeText(raw string) string {
	return normalize.ToUpper(normalize.Transliterate(strings.TrimSpace(raw)))
}

func isVehicleType(value string) bool {
	for _, t := range VehicleTypes {
		if t == value {
			return true
		}
	}
	return false
}
