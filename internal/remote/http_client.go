package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/alexanderramin/trestle/internal/contract"
	"github.com/alexanderramin/trestle/internal/domain"
)

const (
	DefaultTimeout = 10 * time.Second
	// DefaultRate paces requests so a store hydrating many stages does not
	// flood the server.
	DefaultRate  = 20
	defaultBurst = 10
)

// HTTPRemote calls a trestle server's REST API.
type HTTPRemote struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// HTTPOption configures an HTTPRemote.
type HTTPOption func(*HTTPRemote)

// WithTimeout bounds each request, including reading the body.
func WithTimeout(d time.Duration) HTTPOption {
	return func(h *HTTPRemote) {
		if d > 0 {
			h.httpClient.Timeout = d
		}
	}
}

// WithRateLimit allows perSecond requests with a small burst. Zero or
// negative disables pacing.
func WithRateLimit(perSecond float64) HTTPOption {
	return func(h *HTTPRemote) {
		if perSecond <= 0 {
			h.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		h.limiter = rate.NewLimiter(rate.Limit(perSecond), defaultBurst)
	}
}

// WithHTTPClient replaces the transport, mainly for tests.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTPRemote) {
		h.httpClient = c
	}
}

func NewHTTPRemote(baseURL string, opts ...HTTPOption) *HTTPRemote {
	h := &HTTPRemote{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRate), defaultBurst),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

var _ Client = (*HTTPRemote)(nil)

func (h *HTTPRemote) ListProjects(ctx context.Context) ([]domain.Project, error) {
	var wire []contract.Project
	if err := h.get(ctx, "/api/projects", &wire); err != nil {
		return nil, err
	}
	out := make([]domain.Project, 0, len(wire))
	for _, p := range wire {
		out = append(out, p.ToDomain())
	}
	return out, nil
}

func (h *HTTPRemote) GetProject(ctx context.Context, id int64) (domain.Project, error) {
	var wire contract.Project
	if err := h.get(ctx, fmt.Sprintf("/api/projects/%d", id), &wire); err != nil {
		return domain.Project{}, err
	}
	return wire.ToDomain(), nil
}

func (h *HTTPRemote) CreateProject(ctx context.Context, p domain.Project) (Envelope, error) {
	req := contract.ProjectRequest{
		Name:       p.Name,
		Location:   p.Location,
		TargetDate: domain.FormatDate(p.TargetDate),
	}
	if !p.StartDate.IsZero() {
		req.StartDate = p.StartDate.Format(domain.DateLayout)
	}
	return h.mutate(ctx, http.MethodPost, "/api/projects", req)
}

func (h *HTTPRemote) FetchStages(ctx context.Context, projectID int64) ([]domain.Stage, error) {
	var wire []contract.Stage
	if err := h.get(ctx, fmt.Sprintf("/api/projects/%d/stages", projectID), &wire); err != nil {
		return nil, err
	}
	out := make([]domain.Stage, 0, len(wire))
	for _, s := range wire {
		out = append(out, s.ToDomain())
	}
	return out, nil
}

func (h *HTTPRemote) FetchTasks(ctx context.Context, stageID int64) ([]domain.Task, error) {
	var wire []contract.Task
	if err := h.get(ctx, fmt.Sprintf("/api/stages/%d/tasks", stageID), &wire); err != nil {
		return nil, err
	}
	out := make([]domain.Task, 0, len(wire))
	for _, t := range wire {
		out = append(out, t.ToDomain())
	}
	return out, nil
}

func (h *HTTPRemote) CreateStage(ctx context.Context, projectID int64, in StageInput) (Envelope, error) {
	return h.mutate(ctx, http.MethodPost, fmt.Sprintf("/api/projects/%d/stages", projectID), stageRequest(in))
}

func (h *HTTPRemote) EditStage(ctx context.Context, stageID int64, in StageInput) (Envelope, error) {
	return h.mutate(ctx, http.MethodPut, fmt.Sprintf("/api/stages/%d", stageID), stageRequest(in))
}

func (h *HTTPRemote) DeleteStage(ctx context.Context, stageID int64) (Envelope, error) {
	return h.mutate(ctx, http.MethodDelete, fmt.Sprintf("/api/stages/%d", stageID), nil)
}

func (h *HTTPRemote) CreateTask(ctx context.Context, stageID int64, in TaskInput) (Envelope, error) {
	return h.mutate(ctx, http.MethodPost, fmt.Sprintf("/api/stages/%d/tasks", stageID), taskRequest(in))
}

func (h *HTTPRemote) EditTask(ctx context.Context, taskID int64, in TaskInput) (Envelope, error) {
	return h.mutate(ctx, http.MethodPut, fmt.Sprintf("/api/tasks/%d", taskID), taskRequest(in))
}

func (h *HTTPRemote) DeleteTask(ctx context.Context, taskID int64) (Envelope, error) {
	return h.mutate(ctx, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", taskID), nil)
}

func (h *HTTPRemote) CompleteTask(ctx context.Context, taskID int64) (Envelope, error) {
	return h.mutate(ctx, http.MethodPost, fmt.Sprintf("/api/tasks/%d/complete", taskID), nil)
}

func (h *HTTPRemote) UncheckTask(ctx context.Context, taskID int64) (Envelope, error) {
	return h.mutate(ctx, http.MethodPost, fmt.Sprintf("/api/tasks/%d/uncheck", taskID), nil)
}

func stageRequest(in StageInput) contract.StageRequest {
	return contract.StageRequest{
		Name:        in.Name,
		Description: in.Description,
		StartDate:   domain.FormatDate(in.StartDate),
		EndDate:     domain.FormatDate(in.EndDate),
	}
}

func taskRequest(in TaskInput) contract.TaskRequest {
	return contract.TaskRequest{
		Name:            in.Name,
		Description:     in.Description,
		StartDate:       domain.FormatDate(in.StartDate),
		ExpectedEndDate: domain.FormatDate(in.ExpectedEndDate),
	}
}

func (h *HTTPRemote) get(ctx context.Context, path string, out any) error {
	resp, err := h.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("GET %s: %w", path, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

// mutate sends body and reads the envelope. A rejection with a readable
// envelope is not an error; only transport failures and bodies that are
// not envelopes are.
func (h *HTTPRemote) mutate(ctx context.Context, method, path string, body any) (Envelope, error) {
	resp, err := h.do(ctx, method, path, body)
	if err != nil {
		return Envelope{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Envelope{}, fmt.Errorf("reading %s %s: %w", method, path, err)
	}
	var env contract.MutationResponse
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if resp.StatusCode >= 300 && !env.Success && env.Message == "" {
		return Envelope{}, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	return Envelope{Success: env.Success, Message: env.Message, ID: env.ID}, nil
}

func (h *HTTPRemote) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	if err := h.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
}
