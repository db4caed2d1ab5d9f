package zabbix

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"zabbix-sla/internal/domain"
)

// Client is a Zabbix JSON-RPC 2.0 API client implementing
// domain.IncidentSource. The request id counter is scoped to the client
// instance; it carries no domain meaning and exists only to satisfy the
// JSON-RPC envelope.
type Client struct {
	url       string
	token     string
	client    *http.Client
	requestID atomic.Int64
}

var _ domain.IncidentSource = (*Client)(nil)

// New creates a client for the Zabbix API at the given base URL
func New(url, token string, timeout time.Duration) *Client {
	return &Client{
		url:   strings.TrimRight(url, "/") + "/api_jsonrpc.php",
		token: token,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// APIError is a protocol-level error returned by the Zabbix API
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("zabbix api error %d: %s %s", e.Code, e.Message, e.Data)
}

type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
	ID      int64       `json:"id"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *APIError       `json:"error"`
}

func (c *Client) call(ctx context.Context, method string, params interface{}, useAuth bool) (json.RawMessage, error) {
	if params == nil {
		params = map[string]interface{}{}
	}
	payload := rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      c.requestID.Add(1),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if useAuth {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s request failed: unexpected status %d", method, resp.StatusCode)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", method, err)
	}
	if rpcResp.Error != nil {
		return nil, fmt.Errorf("%s: %w", method, rpcResp.Error)
	}

	return rpcResp.Result, nil
}

// APIVersion probes the API without authentication, used as a connection
// check at startup
func (c *Client) APIVersion(ctx context.Context) (string, error) {
	result, err := c.call(ctx, "apiinfo.version", nil, false)
	if err != nil {
		return "", err
	}
	var version string
	if err := json.Unmarshal(result, &version); err != nil {
		return "", fmt.Errorf("decode api version: %w", err)
	}
	return version, nil
}

// eventRow is the wire shape of a Zabbix event. Clocks come back as
// decimal-string Unix seconds; r_eventid "0" means unresolved.
type eventRow struct {
	EventID  string `json:"eventid"`
	Clock    string `json:"clock"`
	REventID string `json:"r_eventid"`
	Name     string `json:"name"`
}

func parseClock(clock string) (time.Time, error) {
	sec, err := strconv.ParseInt(clock, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse event clock %q: %w", clock, err)
	}
	return time.Unix(sec, 0), nil
}

func (r eventRow) toIncident(hostID string) (domain.IncidentRecord, error) {
	start, err := parseClock(r.Clock)
	if err != nil {
		return domain.IncidentRecord{}, err
	}
	recoveryID := r.REventID
	if recoveryID == "0" {
		recoveryID = ""
	}
	return domain.IncidentRecord{
		ID:         r.EventID,
		HostID:     hostID,
		StartTime:  start,
		RecoveryID: recoveryID,
		Category:   r.Name,
	}, nil
}

// FetchIncidents retrieves PROBLEM events for a host starting within
// [from, till], ascending by start time.
//
// event.get is used instead of problem.get because the problem table may not
// retain resolved problems depending on housekeeper settings.
func (c *Client) FetchIncidents(ctx context.Context, hostID string, from, till time.Time) ([]domain.IncidentRecord, error) {
	params := map[string]interface{}{
		"output":    []string{"eventid", "clock", "r_eventid", "name"},
		"hostids":   []string{hostID},
		"time_from": from.Unix(),
		"time_till": till.Unix(),
		"source":    0,   // triggers
		"object":    0,   // trigger events
		"value":     "1", // problem events only
		"sortfield": []string{"clock"},
		"sortorder": "ASC",
	}

	result, err := c.call(ctx, "event.get", params, true)
	if err != nil {
		return nil, err
	}
	return decodeIncidents(result, hostID)
}

// FetchIncidentsBefore retrieves the most recent PROBLEM events for a host
// starting before till, descending by start time, bounded to limit
func (c *Client) FetchIncidentsBefore(ctx context.Context, hostID string, till time.Time, limit int) ([]domain.IncidentRecord, error) {
	if limit <= 0 {
		return nil, nil
	}
	params := map[string]interface{}{
		"output":    []string{"eventid", "clock", "r_eventid", "name"},
		"hostids":   []string{hostID},
		"time_till": till.Unix(),
		"source":    0,
		"object":    0,
		"value":     "1",
		"sortfield": []string{"clock"},
		"sortorder": "DESC",
		"limit":     limit,
	}

	result, err := c.call(ctx, "event.get", params, true)
	if err != nil {
		return nil, err
	}
	return decodeIncidents(result, hostID)
}

func decodeIncidents(result json.RawMessage, hostID string) ([]domain.IncidentRecord, error) {
	var rows []eventRow
	if err := json.Unmarshal(result, &rows); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}

	incidents := make([]domain.IncidentRecord, 0, len(rows))
	for _, row := range rows {
		incident, err := row.toIncident(hostID)
		if err != nil {
			return nil, err
		}
		incidents = append(incidents, incident)
	}
	return incidents, nil
}

// FetchRecoveryTimes resolves recovery event ids to their instants with a
// single batched event.get call
func (c *Client) FetchRecoveryTimes(ctx context.Context, ids []string) (map[string]time.Time, error) {
	if len(ids) == 0 {
		return map[string]time.Time{}, nil
	}

	params := map[string]interface{}{
		"output":   []string{"eventid", "clock"},
		"eventids": ids,
	}

	result, err := c.call(ctx, "event.get", params, true)
	if err != nil {
		return nil, err
	}

	var rows []eventRow
	if err := json.Unmarshal(result, &rows); err != nil {
		return nil, fmt.Errorf("decode recovery events: %w", err)
	}

	recoveries := make(map[string]time.Time, len(rows))
	for _, row := range rows {
		clock, err := parseClock(row.Clock)
		if err != nil {
			return nil, err
		}
		recoveries[row.EventID] = clock
	}
	return recoveries, nil
}

type hostRow struct {
	HostID string `json:"hostid"`
	Host   string `json:"host"`
	Name   string `json:"name"`
}

// FetchHostsInGroup retrieves the enabled hosts of a group
func (c *Client) FetchHostsInGroup(ctx context.Context, groupID string) ([]domain.Host, error) {
	params := map[string]interface{}{
		"output":   []string{"hostid", "host", "name"},
		"groupids": groupID,
		"filter":   map[string]interface{}{"status": "0"}, // enabled hosts only
	}

	result, err := c.call(ctx, "host.get", params, true)
	if err != nil {
		return nil, err
	}

	var rows []hostRow
	if err := json.Unmarshal(result, &rows); err != nil {
		return nil, fmt.Errorf("decode hosts: %w", err)
	}

	hosts := make([]domain.Host, 0, len(rows))
	for _, row := range rows {
		hosts = append(hosts, domain.Host{
			ID:            row.HostID,
			TechnicalName: row.Host,
			DisplayName:   row.Name,
		})
	}
	return hosts, nil
}

type groupRow struct {
	GroupID string `json:"groupid"`
	Name    string `json:"name"`
}

// FetchGroups retrieves host groups, optionally filtered by name
func (c *Client) FetchGroups(ctx context.Context, names []string) ([]domain.HostGroup, error) {
	params := map[string]interface{}{
		"output": []string{"groupid", "name"},
	}
	if len(names) > 0 {
		params["filter"] = map[string]interface{}{"name": names}
	}

	result, err := c.call(ctx, "hostgroup.get", params, true)
	if err != nil {
		return nil, err
	}

	var rows []groupRow
	if err := json.Unmarshal(result, &rows); err != nil {
		return nil, fmt.Errorf("decode host groups: %w", err)
	}

	groups := make([]domain.HostGroup, 0, len(rows))
	for _, row := range rows {
		groups = append(groups, domain.HostGroup{ID: row.GroupID, Name: row.Name})
	}
	return groups, nil
}
