package order

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

const idempotencyTTL = 24 * time.Hour

// ReplayedError воспроизводит результат более раннего неудачного запроса
// с тем же idempotency-key: тот же статус, то же сообщение, без повторного
// списания стока.
type ReplayedError struct {
	HTTPStatus int
	Message    string
}

func (e *ReplayedError) Error() string {
	return e.Message
}

type idempotencyErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// createIdempotent оборачивает создание заказа дедупликацией по ключу.
// Повтор POST после таймаута с неизвестным исходом не должен резервировать
// сток второй раз — поэтому запись processing создаётся ДО первого вызова
// каталога, а не после.
func (s *Service) createIdempotent(ctx context.Context, caller domain.CallerContext, items []domain.ItemRequest, idemKey string) (domain.Order, error) {
	reqHash, err := buildRequestHash(caller.UserID, items)
	if err != nil {
		s.logger.WithError(err).Warn("failed to build idempotency request hash")
		return domain.Order{}, err
	}

	record, err := s.idemRepo.CreateProcessing(idemKey, reqHash, time.Now().UTC().Add(idempotencyTTL))
	if err != nil {
		return s.replayIdempotency(err, record)
	}

	order, runErr := s.createInternal(ctx, caller, items)
	if runErr != nil {
		s.cacheFailure(idemKey, runErr)
		return domain.Order{}, runErr
	}

	if cacheErr := s.cacheSuccess(idemKey, order); cacheErr != nil {
		s.logger.WithError(cacheErr).WithField("idempotency_key", idemKey).
			Warn("failed to store idempotent success response")
	}
	return order, nil
}

func (s *Service) replayIdempotency(createErr error, record domain.IdempotencyRecord) (domain.Order, error) {
	switch {
	case errors.Is(createErr, domain.ErrIdempotencyHashMismatch):
		return domain.Order{}, domain.ErrIdempotencyHashMismatch
	case errors.Is(createErr, domain.ErrIdempotencyKeyAlreadyExists):
		switch record.Status {
		case domain.IdempotencyStatusDone:
			var order domain.Order
			if err := json.Unmarshal(record.ResponseBody, &order); err != nil {
				s.logger.WithError(err).WithField("idempotency_key", record.Key).
					Warn("failed to decode cached idempotency response")
				return domain.Order{}, errors.New("failed to decode cached idempotency response")
			}
			return order, nil
		case domain.IdempotencyStatusProcessing:
			return domain.Order{}, domain.ErrIdempotencyInFlight
		case domain.IdempotencyStatusFailed:
			return domain.Order{}, decodeFailure(record)
		default:
			return domain.Order{}, errors.New("unknown idempotency record status")
		}
	default:
		s.logger.WithError(createErr).Warn("failed to create idempotency record")
		return domain.Order{}, createErr
	}
}

func (s *Service) cacheSuccess(key string, order domain.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return s.idemRepo.MarkDone(key, data, http.StatusCreated)
}

func (s *Service) cacheFailure(key string, runErr error) {
	code := HTTPStatus(runErr)
	payload, err := json.Marshal(idempotencyErrorPayload{
		Code:    code,
		Message: runErr.Error(),
	})
	if err != nil {
		s.logger.WithError(err).WithField("idempotency_key", key).
			Warn("failed to encode idempotency failure payload")
		payload = nil
	}

	if err := s.idemRepo.MarkFailed(key, payload, code); err != nil {
		s.logger.WithError(err).WithField("idempotency_key", key).
			Warn("failed to store idempotency failure response")
	}
}

func decodeFailure(record domain.IdempotencyRecord) error {
	if len(record.ResponseBody) > 0 {
		var payload idempotencyErrorPayload
		if err := json.Unmarshal(record.ResponseBody, &payload); err == nil {
			if payload.Message == "" {
				payload.Message = "previous request with the same idempotency key failed"
			}
			code := payload.Code
			if code < http.StatusBadRequest {
				code = http.StatusInternalServerError
			}
			return &ReplayedError{HTTPStatus: code, Message: payload.Message}
		}
	}

	return &ReplayedError{
		HTTPStatus: http.StatusInternalServerError,
		Message:    "previous request with the same idempotency key failed",
	}
}

// buildRequestHash детерминированно хэширует владельца и позиции запроса:
// тот же ключ с другим телом — это конфликт, а не повтор.
func buildRequestHash(ownerID string, items []domain.ItemRequest) (string, error) {
	payload := struct {
		OwnerID string               `json:"owner_id"`
		Items   []domain.ItemRequest `json:"items"`
	}{OwnerID: ownerID, Items: items}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
