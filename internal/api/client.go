// Package api is the typed client for the hostel complaints REST backend.
// Every call is bounded by the caller's context; response bodies are matched
// against the envelopes each endpoint is known to return.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hostelcare/portal/internal/config"
	"hostelcare/portal/internal/models"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Client talks to the backend on behalf of one signed-in user.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

// NewClient creates a client with the default request timeout.
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: config.RequestTimeout},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, 0, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return data, resp.StatusCode, nil
}

// get performs a read. Transport failures and non-2xx statuses become
// *models.FetchError.
func (c *Client) get(ctx context.Context, op, path string) ([]byte, error) {
	data, status, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, &models.FetchError{Op: op, StatusCode: status, Err: err}
	}
	if status < 200 || status > 299 {
		return nil, &models.FetchError{Op: op, StatusCode: status, Err: errors.New(http.StatusText(status))}
	}
	return data, nil
}

// send performs a mutation and interprets the {success, message} envelope.
// A message from the backend is surfaced verbatim as *models.ServerRejection.
func (c *Client) send(ctx context.Context, op, method, path string, body any) error {
	_, err := c.sendData(ctx, op, method, path, body)
	return err
}

// sendData is send that also returns the envelope's data member.
func (c *Client) sendData(ctx context.Context, op, method, path string, body any) (json.RawMessage, error) {
	data, status, err := c.do(ctx, method, path, body)
	if err != nil {
		return nil, &models.FetchError{Op: op, StatusCode: status, Err: err}
	}

	var env Envelope
	decodeErr := json.Unmarshal(data, &env)

	if status < 200 || status > 299 {
		if status != http.StatusUnauthorized && decodeErr == nil && env.Message != "" {
			return nil, &models.ServerRejection{StatusCode: status, Message: env.Message}
		}
		return nil, &models.FetchError{Op: op, StatusCode: status, Err: errors.New(http.StatusText(status))}
	}

	if decodeErr != nil {
		return nil, &models.MalformedResponseError{Op: op}
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = fmt.Sprintf("Failed to %s", op)
		}
		return nil, &models.ServerRejection{StatusCode: status, Message: msg}
	}
	return env.Data, nil
}

func complaintsPath(role models.Role) string {
	if role == models.RoleAdmin {
		return "/api/complaints/admin/all"
	}
	return "/api/complaints/my"
}

// ListComplaints returns every complaint visible to role.
func (c *Client) ListComplaints(ctx context.Context, role models.Role) ([]models.Complaint, error) {
	const op = "fetch complaints"
	body, err := c.get(ctx, op, complaintsPath(role))
	if err != nil {
		return nil, err
	}

	shapes := []Shape{BareArray, DataArray}
	if role != models.RoleAdmin {
		shapes = []Shape{DataField("complaints"), BareArray}
	}

	list, ok := DecodeList[models.Complaint](body, shapes...)
	if !ok {
		return nil, &models.MalformedResponseError{Op: op}
	}
	return list, nil
}

// Timeline returns the raw timeline body. Callers project it with
// complaint.ProjectTimeline, which tolerates any shape.
func (c *Client) Timeline(ctx context.Context, role models.Role, complaintID string) ([]byte, error) {
	path := "/api/complaints/" + url.PathEscape(complaintID) + "/timeline"
	if role == models.RoleAdmin {
		path = "/api/complaints/admin/" + url.PathEscape(complaintID) + "/timeline"
	}
	return c.get(ctx, "fetch timeline", path)
}

// UpdateStatus submits an administrative status change.
func (c *Client) UpdateStatus(ctx context.Context, complaintID string, upd models.StatusUpdate) error {
	return c.send(ctx, "update status", http.MethodPut,
		"/api/complaints/admin/"+url.PathEscape(complaintID)+"/status", upd)
}

// SubmitFeedback records the student's verdict on a resolved complaint.
func (c *Client) SubmitFeedback(ctx context.Context, complaintID string, fb models.Feedback) error {
	return c.send(ctx, "submit feedback", http.MethodPost,
		"/api/complaints/"+url.PathEscape(complaintID)+"/feedback", fb)
}

// CreateComplaint raises a new complaint for the signed-in student.
func (c *Client) CreateComplaint(ctx context.Context, nc models.NewComplaint) error {
	return c.send(ctx, "submit complaint", http.MethodPost, "/api/complaints", nc)
}

// ListMembers returns the staff roster. A missing endpoint yields an empty roster.
func (c *Client) ListMembers(ctx context.Context) ([]models.Member, error) {
	const op = "fetch members"
	body, err := c.get(ctx, op, "/api/admin/members")
	if err != nil {
		var fe *models.FetchError
		if errors.As(err, &fe) && fe.NotFound() {
			return []models.Member{}, nil
		}
		return nil, err
	}

	list, ok := DecodeList[models.Member](body, DataField("members"))
	if !ok {
		return nil, &models.MalformedResponseError{Op: op}
	}
	return list, nil
}

// ListAnnouncements returns announcements visible to role.
func (c *Client) ListAnnouncements(ctx context.Context, role models.Role) ([]models.Announcement, error) {
	const op = "fetch announcements"
	path := "/api/announcements"
	if role == models.RoleAdmin {
		path = "/api/announcements/admin/all"
	}
	body, err := c.get(ctx, op, path)
	if err != nil {
		return nil, err
	}

	list, ok := DecodeList[models.Announcement](body, DataArray, BareArray)
	if !ok {
		return nil, &models.MalformedResponseError{Op: op}
	}
	return list, nil
}

// ListPolls returns every poll (admin only).
func (c *Client) ListPolls(ctx context.Context) ([]models.Poll, error) {
	const op = "fetch polls"
	body, err := c.get(ctx, op, "/api/polls/admin/all")
	if err != nil {
		return nil, err
	}

	list, ok := DecodeList[models.Poll](body, DataArray)
	if !ok {
		return nil, &models.MalformedResponseError{Op: op}
	}
	return list, nil
}

// StudentCount returns the number of registered students.
func (c *Client) StudentCount(ctx context.Context) (int, error) {
	const op = "fetch student count"
	body, err := c.get(ctx, op, "/api/admin/students/count")
	if err != nil {
		return 0, err
	}

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Count *int `json:"count"`
		} `json:"data"`
	}
	if json.Unmarshal(body, &resp) != nil || !resp.Success || resp.Data.Count == nil {
		return 0, &models.MalformedResponseError{Op: op}
	}
	return *resp.Data.Count, nil
}

// ListStudents returns one page of the roster and the page count.
func (c *Client) ListStudents(ctx context.Context, f models.StudentFilter) (models.StudentPage, error) {
	const op = "fetch students"
	q := url.Values{}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	for key, v := range map[string]string{"search": f.Search, "course": f.Course, "branch": f.Branch, "roomNumber": f.RoomNumber} {
		if v != "" {
			q.Set(key, v)
		}
	}
	path := "/api/admin/students"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	body, err := c.get(ctx, op, path)
	if err != nil {
		return models.StudentPage{}, err
	}

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Students   []models.Student `json:"students"`
			TotalPages int              `json:"totalPages"`
			Total      int64            `json:"total"`
		} `json:"data"`
	}
	if json.Unmarshal(body, &resp) != nil || !resp.Success || resp.Data.Students == nil {
		return models.StudentPage{}, &models.MalformedResponseError{Op: op}
	}
	return models.StudentPage(resp.Data), nil
}

// AddStudent registers a student and returns the generated password.
func (c *Client) AddStudent(ctx context.Context, in models.StudentInput) (string, error) {
	const op = "add student"
	data, err := c.sendData(ctx, op, http.MethodPost, "/api/admin/students", in)
	if err != nil {
		return "", err
	}

	var out struct {
		GeneratedPassword string `json:"generatedPassword"`
	}
	if json.Unmarshal(data, &out) != nil || out.GeneratedPassword == "" {
		return "", &models.MalformedResponseError{Op: op}
	}
	return out.GeneratedPassword, nil
}

func (c *Client) UpdateStudent(ctx context.Context, id string, in models.StudentInput) error {
	return c.send(ctx, "update student", http.MethodPut, "/api/admin/students/"+url.PathEscape(id), in)
}

func (c *Client) DeleteStudent(ctx context.Context, id string) error {
	return c.send(ctx, "delete student", http.MethodDelete, "/api/admin/students/"+url.PathEscape(id), nil)
}

// TempStudents lists students who still use their generated password.
func (c *Client) TempStudents(ctx context.Context) ([]models.TempStudent, error) {
	const op = "fetch temporary passwords"
	body, err := c.get(ctx, op, "/api/admin/students/temp-summary")
	if err != nil {
		return nil, err
	}

	list, ok := DecodeList[models.TempStudent](body, DataArray)
	if !ok {
		return nil, &models.MalformedResponseError{Op: op}
	}
	return list, nil
}

func (c *Client) PostAnnouncement(ctx context.Context, in models.AnnouncementInput) error {
	return c.send(ctx, "post announcement", http.MethodPost, "/api/announcements", in)
}

func (c *Client) DeleteAnnouncement(ctx context.Context, id string) error {
	return c.send(ctx, "delete announcement", http.MethodDelete, "/api/announcements/"+url.PathEscape(id), nil)
}

// UnreadNotifications returns the caller's unread notifications.
func (c *Client) UnreadNotifications(ctx context.Context) ([]models.Notification, error) {
	const op = "fetch notifications"
	body, err := c.get(ctx, op, "/api/notifications/unread")
	if err != nil {
		return nil, err
	}

	list, ok := DecodeList[models.Notification](body, DataArray)
	if !ok {
		return nil, &models.MalformedResponseError{Op: op}
	}
	return list, nil
}

// UnreadCount returns the number of unread notifications.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	const op = "fetch unread count"
	body, err := c.get(ctx, op, "/api/notifications/count")
	if err != nil {
		return 0, err
	}

	var resp struct {
		Success bool `json:"success"`
		Count   *int `json:"count"`
	}
	if json.Unmarshal(body, &resp) != nil || !resp.Success || resp.Count == nil {
		return 0, &models.MalformedResponseError{Op: op}
	}
	return *resp.Count, nil
}

// MarkNotificationRead marks a single notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	return c.send(ctx, "mark notification as read", http.MethodDelete,
		"/api/notifications/"+url.PathEscape(id), nil)
}

// MarkAllNotificationsRead marks every notification as read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.send(ctx, "mark all notifications as read", http.MethodPatch, "/api/notifications/read-all", nil)
}
