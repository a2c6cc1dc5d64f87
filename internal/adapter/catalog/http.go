package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

const (
	defaultRequestTimeout = 5 * time.Second
	maxErrorBodySize      = 4 << 10
)

// HTTPClient — реализация domain.CatalogClient поверх REST API каталога.
//
// Контракт каталога:
//
//	GET /api/products/{id}                           -> 200 product | 404
//	PUT /api/products/{id}/reduce-stock?quantity=n   -> 200 | 400 insufficient | 404
//	PUT /api/products/{id}/restore-stock?quantity=n  -> 200 | 404
type HTTPClient struct {
	baseURL string
	client  *http.Client
	logger  *log.Entry
}

// NewHTTPClient создаёт клиента каталога с ограниченным таймаутом запроса.
func NewHTTPClient(baseURL string, logger *log.Entry) *HTTPClient {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: defaultRequestTimeout,
		},
		logger: logger.WithField("component", "catalog_http_client"),
	}
}

type productResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceMinor int64  `json:"price_minor"`
	Quantity   int32  `json:"quantity"`
}

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Available int32  `json:"available"`
}

// FetchProduct запрашивает срез данных о товаре.
func (c *HTTPClient) FetchProduct(ctx context.Context, productID string) (domain.ProductSnapshot, error) {
	endpoint := fmt.Sprintf("%s/api/products/%s", c.baseURL, url.PathEscape(productID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.ProductSnapshot{}, fmt.Errorf("build fetch product request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.WithError(err).WithField("product_id", productID).Warn("catalog fetch failed")
		return domain.ProductSnapshot{}, domain.ErrCatalogUnavailable
	}
	defer drainAndClose(resp.Body)

	switch {
	case resp.StatusCode == http.StatusOK:
		var body productResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return domain.ProductSnapshot{}, fmt.Errorf("decode product response: %w", err)
		}
		return domain.ProductSnapshot{
			ID:         body.ID,
			Name:       body.Name,
			PriceMinor: body.PriceMinor,
			Quantity:   body.Quantity,
		}, nil
	case resp.StatusCode == http.StatusNotFound:
		return domain.ProductSnapshot{}, &domain.ProductNotFoundError{ProductID: productID}
	case resp.StatusCode >= 500:
		return domain.ProductSnapshot{}, domain.ErrCatalogUnavailable
	default:
		return domain.ProductSnapshot{}, fmt.Errorf("fetch product: unexpected status %d", resp.StatusCode)
	}
}

// ReserveStock списывает qty единиц товара.
// Таймаут или обрыв соединения возвращает ErrCatalogUnavailable:
// исход операции на стороне каталога в этом случае неизвестен.
func (c *HTTPClient) ReserveStock(ctx context.Context, productID string, qty int32) error {
	return c.adjustStock(ctx, productID, qty, "reduce-stock")
}

// RestoreStock возвращает qty единиц товара (компенсация).
func (c *HTTPClient) RestoreStock(ctx context.Context, productID string, qty int32) error {
	return c.adjustStock(ctx, productID, qty, "restore-stock")
}

func (c *HTTPClient) adjustStock(ctx context.Context, productID string, qty int32, op string) error {
	endpoint := fmt.Sprintf(
		"%s/api/products/%s/%s?quantity=%s",
		c.baseURL, url.PathEscape(productID), op, strconv.FormatInt(int64(qty), 10),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.WithError(err).WithFields(log.Fields{
			"product_id": productID,
			"op":         op,
		}).Warn("catalog stock call failed")
		return domain.ErrCatalogUnavailable
	}
	defer drainAndClose(resp.Body)

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusNoContent:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return &domain.ProductNotFoundError{ProductID: productID}
	case resp.StatusCode == http.StatusBadRequest:
		var body errorResponse
		_ = json.NewDecoder(io.LimitReader(resp.Body, maxErrorBodySize)).Decode(&body)
		return &domain.InsufficientStockError{
			ProductID: productID,
			Available: body.Available,
			Requested: qty,
		}
	case resp.StatusCode >= 500:
		return domain.ErrCatalogUnavailable
	default:
		return fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode)
	}
}

// Ping проверяет, что каталог отвечает по HTTP. Любой статус-код
// считается признаком жизни: достаточно того, что сервер доступен.
func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/products", nil)
	if err != nil {
		return fmt.Errorf("build catalog ping request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.ErrCatalogUnavailable
	}
	drainAndClose(resp.Body)
	return nil
}

// drainAndClose вычитывает остаток тела, чтобы соединение вернулось в пул.
func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, maxErrorBodySize))
	_ = body.Close()
}

var _ domain.CatalogClient = (*HTTPClient)(nil)
