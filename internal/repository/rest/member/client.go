package member

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"membership-admin/internal/config"
	memberdomain "membership-admin/internal/domain/member"
)

const (
	defaultTimeout = 10 * time.Second

	singleObjectMediaType = "application/vnd.pgrst.object+json"
	codeNoRows            = "PGRST116"
)

// Client is a gateway over a PostgREST table endpoint such as the one Supabase exposes.
type Client struct {
	baseURL string
	apiKey  string
	table   string
	schema  memberdomain.Schema
	client  *http.Client
}

func NewClient(cfg config.SupabaseConfig, schema memberdomain.Schema) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	table := strings.TrimSpace(cfg.Table)
	if table == "" {
		table = "member"
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		apiKey:  cfg.AnonKey,
		table:   table,
		schema:  schema,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (c *Client) List(ctx context.Context) ([]memberdomain.Member, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("order", memberdomain.ColumnCreatedAt+".desc")

	var rows []map[string]any
	if err := c.do(ctx, "list", http.MethodGet, query, nil, false, &rows); err != nil {
		return nil, err
	}
	return c.decodeRows("list", rows)
}

func (c *Client) Get(ctx context.Context, id string) (*memberdomain.Member, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set(memberdomain.ColumnID, "eq."+id)

	var row map[string]any
	if err := c.do(ctx, "get", http.MethodGet, query, nil, true, &row); err != nil {
		return nil, err
	}
	if len(row) == 0 {
		return nil, memberdomain.ErrNotFound
	}
	m, err := c.schema.Decode(row)
	if err != nil {
		return nil, &memberdomain.BackendError{Op: "get", Message: err.Error(), Err: err}
	}
	return &m, nil
}

func (c *Client) Insert(ctx context.Context, fields memberdomain.Fields) (*memberdomain.Member, error) {
	var rows []map[string]any
	if err := c.do(ctx, "insert", http.MethodPost, nil, c.schema.Encode(fields), false, &rows); err != nil {
		return nil, err
	}
	return c.first("insert", rows)
}

func (c *Client) Update(ctx context.Context, id string, fields memberdomain.Fields) (*memberdomain.Member, error) {
	query := url.Values{}
	query.Set(memberdomain.ColumnID, "eq."+id)

	var rows []map[string]any
	if err := c.do(ctx, "update", http.MethodPatch, query, c.schema.Encode(fields), false, &rows); err != nil {
		return nil, err
	}
	return c.first("update", rows)
}

// Delete succeeds whether or not a row matched.
func (c *Client) Delete(ctx context.Context, id string) error {
	query := url.Values{}
	query.Set(memberdomain.ColumnID, "eq."+id)
	return c.do(ctx, "delete", http.MethodDelete, query, nil, false, nil)
}

func (c *Client) first(op string, rows []map[string]any) (*memberdomain.Member, error) {
	if len(rows) == 0 {
		return nil, memberdomain.ErrNotFound
	}
	m, err := c.schema.Decode(rows[0])
	if err != nil {
		return nil, &memberdomain.BackendError{Op: op, Message: err.Error(), Err: err}
	}
	return &m, nil
}

func (c *Client) decodeRows(op string, rows []map[string]any) ([]memberdomain.Member, error) {
	members := make([]memberdomain.Member, 0, len(rows))
	for _, row := range rows {
		m, err := c.schema.Decode(row)
		if err != nil {
			return nil, &memberdomain.BackendError{Op: op, Message: err.Error(), Err: err}
		}
		members = append(members, m)
	}
	return members, nil
}

func (c *Client) do(ctx context.Context, op, method string, query url.Values, body any, single bool, out any) error {
	endpoint := c.baseURL + "/rest/v1/" + url.PathEscape(c.table)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &memberdomain.BackendError{Op: op, Message: "encode request: " + err.Error(), Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return &memberdomain.BackendError{Op: op, Message: err.Error(), Err: err}
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if single {
		req.Header.Set("Accept", singleObjectMediaType)
	} else {
		req.Header.Set("Accept", "application/json")
	}
	if method == http.MethodPost || method == http.MethodPatch {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &memberdomain.BackendError{Op: op, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(op, resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	if err := decoder.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return &memberdomain.BackendError{Op: op, Message: "decode response: " + err.Error(), Err: err}
	}
	return nil
}

func decodeError(op string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var apiErr apiError
	if err := json.Unmarshal(raw, &apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
		if apiErr.Message == "" {
			apiErr.Message = fmt.Sprintf("unexpected status %d", resp.StatusCode)
		}
	}

	if apiErr.Code == codeNoRows {
		return memberdomain.ErrNotFound
	}
	if memberdomain.IsValidationCode(apiErr.Code) || isValidationStatus(resp.StatusCode) {
		return &memberdomain.ValidationError{Message: apiErr.Message}
	}
	return &memberdomain.BackendError{
		Op:      op,
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Err:     fmt.Errorf("%s %s: status %d", resp.Request.Method, op, resp.StatusCode),
	}
}

func isValidationStatus(status int) bool {
	switch status {
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return true
	}
	return false
}
