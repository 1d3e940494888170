package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/iota-uz/person-directory/modules/person/domain/aggregates/person"
	"github.com/iota-uz/person-directory/modules/person/presentation/dtos"
	"github.com/iota-uz/person-directory/pkg/composables"
	"github.com/iota-uz/person-directory/pkg/constants"
	"github.com/iota-uz/person-directory/pkg/serrors"
)

// maxErrorBody bounds how much of an upstream error body is kept for logs.
const maxErrorBody = 512

var tracer = otel.Tracer("person-directory-frontend-client")

// PersonClient calls the person service. Every failure, including non-2xx
// answers and undecodable bodies, is a serrors.KindUpstream error. Calls are
// made once; there is no retry.
type PersonClient struct {
	baseURL    string
	httpClient *http.Client
	requestID  string
}

func NewPersonClient(baseURL string, timeout time.Duration, requestIDHeader string) *PersonClient {
	return &PersonClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		requestID:  requestIDHeader,
	}
}

func (c *PersonClient) BaseURL() string {
	return c.baseURL
}

func (c *PersonClient) List(ctx context.Context) ([]dtos.Person, error) {
	const op = "upstream.list"
	resp, err := c.do(ctx, op, http.MethodGet, "/persons", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := expectStatus(op, resp, http.StatusOK); err != nil {
		return nil, err
	}
	persons := []dtos.Person{}
	if err := json.NewDecoder(resp.Body).Decode(&persons); err != nil {
		return nil, serrors.Upstream(op, fmt.Errorf("decode response: %w", err))
	}
	if persons == nil {
		persons = []dtos.Person{}
	}
	return persons, nil
}

func (c *PersonClient) Create(ctx context.Context, dto *person.CreateDTO) (dtos.Person, error) {
	const op = "upstream.create"
	body, err := json.Marshal(dto)
	if err != nil {
		return dtos.Person{}, serrors.Upstream(op, err)
	}
	resp, err := c.do(ctx, op, http.MethodPost, "/persons", body)
	if err != nil {
		return dtos.Person{}, err
	}
	defer resp.Body.Close()

	if err := expectStatus(op, resp, http.StatusCreated, http.StatusOK); err != nil {
		return dtos.Person{}, err
	}
	var created dtos.Person
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return dtos.Person{}, serrors.Upstream(op, fmt.Errorf("decode response: %w", err))
	}
	return created, nil
}

// Ready succeeds only when the person service answers its readiness probe with 2xx.
func (c *PersonClient) Ready(ctx context.Context) error {
	const op = "upstream.ready"
	resp, err := c.do(ctx, op, http.MethodGet, constants.ReadyEndpoint, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return serrors.Upstream(op, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
	return nil
}

func (c *PersonClient) do(ctx context.Context, op, method, path string, body []byte) (*http.Response, error) {
	ctx, span := tracer.Start(ctx, op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.url", c.baseURL+path),
		),
	)
	defer span.End()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, serrors.Upstream(op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id, ok := composables.UseRequestID(ctx); ok && c.requestID != "" {
		req.Header.Set(c.requestID, id)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	logger := composables.UseLogger(ctx).WithFields(logrus.Fields{
		"upstream-op": op,
		"duration":    time.Since(start),
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		logger.WithError(err).Warn("upstream call failed")
		return nil, serrors.Upstream(op, err)
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	logger.WithField("status-code", resp.StatusCode).Debug("upstream call completed")
	return resp, nil
}

func expectStatus(op string, resp *http.Response, accepted ...int) error {
	for _, status := range accepted {
		if resp.StatusCode == status {
			return nil
		}
	}
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return serrors.Upstream(op, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))))
}
