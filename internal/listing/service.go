// Package listing implements the auction creation workflow.
package listing

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/laplataremata/remata-engine/internal/auctionerrors"
	"github.com/laplataremata/remata-engine/internal/logging"
	"github.com/laplataremata/remata-engine/internal/models"
)

// localEndTimeLayout is the wall-clock format the entry form produces.
const localEndTimeLayout = "2006-01-02T15:04"

// Store is the record API surface the workflow needs.
type Store interface {
	CreateAuction(ctx context.Context, token string, rec models.NewAuction) (models.Auction, error)
}

// Uploader stores the auction image and returns its stable path.
type Uploader interface {
	UploadImage(name string, data io.Reader) (string, error)
}

// SessionReader is the read-only session surface.
type SessionReader interface {
	CurrentUser() (models.User, bool)
	Token() string
}

// ImageFile is the attached auction image.
type ImageFile struct {
	Name string
	Data io.Reader
}

// Input carries the entered auction fields. EndTime must already be an
// absolute instant; use ParseLocalEndTime for wall-clock form input.
type Input struct {
	Title         string
	Description   string
	Condition     models.Condition
	StartingPrice decimal.Decimal
	EndTime       time.Time
	Image         *ImageFile
}

type Service struct {
	store   Store
	files   Uploader
	session SessionReader
}

func NewService(store Store, files Uploader, session SessionReader) *Service {
	return &Service{
		store:   store,
		files:   files,
		session: session,
	}
}

// ParseLocalEndTime converts a wall-clock end time entered locally
// ("2006-01-02T15:04") to the exact UTC instant submitted to the
// backend. The conversion happens here so no timezone ambiguity
// reaches the stored value.
func ParseLocalEndTime(value string) (time.Time, error) {
	t, err := time.ParseInLocation(localEndTimeLayout, value, time.Local)
	if err != nil {
		return time.Time{}, auctionerrors.Wrap(auctionerrors.ValidationFailed,
			"Fecha de finalización inválida", err)
	}
	return t.UTC(), nil
}

// CreateAuction validates, uploads and submits a new auction owned by
// the authenticated user. Remote failures surface their message
// verbatim; there is no retry.
func (s *Service) CreateAuction(ctx context.Context, in Input) (models.Auction, error) {
	user, ok := s.session.CurrentUser()
	if !ok {
		return models.Auction{}, auctionerrors.New(auctionerrors.Unauthenticated,
			"Debes iniciar sesión para crear una subasta")
	}

	if err := validate(in); err != nil {
		return models.Auction{}, err
	}

	imagePath, err := s.files.UploadImage(in.Image.Name, in.Image.Data)
	if err != nil {
		return models.Auction{}, auctionerrors.Ensure(err)
	}

	condition := in.Condition
	if condition == "" {
		condition = models.ConditionNew
	}

	rec := models.NewAuction{
		Title:        strings.TrimSpace(in.Title),
		Description:  strings.TrimSpace(in.Description),
		Condition:    condition,
		CurrentPrice: in.StartingPrice,
		EndTime:      in.EndTime.UTC(),
		OwnerID:      user.ID,
		ImagePath:    imagePath,
	}

	auction, err := s.store.CreateAuction(ctx, s.session.Token(), rec)
	if err != nil {
		return models.Auction{}, auctionerrors.Ensure(err)
	}

	logging.Info("auction created", map[string]any{
		"auction": auction.ID,
		"owner":   user.ID,
		"ends":    auction.EndTime,
	})
	return auction, nil
}

// validate applies the client-side business rules of the stricter
// creation flow: the image is mandatory and rejected before any
// submission attempt.
func validate(in Input) error {
	if in.Image == nil || in.Image.Data == nil {
		return auctionerrors.New(auctionerrors.ValidationFailed, "La imagen es obligatoria")
	}
	if strings.TrimSpace(in.Title) == "" {
		return auctionerrors.New(auctionerrors.ValidationFailed, "El título es obligatorio")
	}
	if in.StartingPrice.IsNegative() {
		return auctionerrors.New(auctionerrors.ValidationFailed, "El precio inicial no puede ser negativo")
	}
	if in.Condition != "" && !in.Condition.Valid() {
		return auctionerrors.New(auctionerrors.ValidationFailed, "Estado del artículo inválido")
	}
	if !in.EndTime.After(time.Now()) {
		return auctionerrors.New(auctionerrors.ValidationFailed,
			"La fecha de finalización debe estar en el futuro")
	}
	return nil
}
