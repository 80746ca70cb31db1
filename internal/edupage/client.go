package edupage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/nao1215/edureport/internal/config"
)

// Portal endpoints, relative to the school's base URL.
const (
	pathLoginForm   = "/login/index.php"
	pathLogin       = "/login/edubarLogin.php"
	pathUserHome    = "/user/"
	pathSwitchChild = "/login/switchchild"
	pathTimetable   = "/timetable/server/currenttt.js?__func=curentttGetData"
	pathGrades      = "/znamky/?what=studentviewer&akcia=studentData"
	pathMenu        = "/menu/"
)

// Markers of the JSON payloads embedded in portal pages.
const (
	markerUserHome = "userhome("
	markerGrades   = "znamkyStudentViewer("
	markerMenu     = "edupageData:"
)

// switchOK is the body the portal answers a successful identity switch with.
const switchOK = "OK"

// parentStudentID asks the switch endpoint to return to the parent account.
const parentStudentID = "-1"

// loginRejectedMarker appears in the URL the login form redirects to on
// bad credentials.
const loginRejectedMarker = "bad=1"

var gsecHashPattern = regexp.MustCompile(`ASC\.gsecHash\s*=\s*"([^"]*)"`)

// options holds the settings applied by Option functions.
type options struct {
	baseURL     string
	proxyURL    string
	userAgent   string
	language    string
	timeout     time.Duration
	maxBodySize int64
	location    *time.Location
	logger      *slog.Logger
}

// Option configures a Client.
type Option func(*options)

// WithBaseURL overrides the portal base URL. Used to point at a test server.
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		o.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithProxy routes requests through an HTTP(S) or SOCKS5 proxy URL.
func WithProxy(proxyURL string) Option {
	return func(o *options) {
		o.proxyURL = proxyURL
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(userAgent string) Option {
	return func(o *options) {
		o.userAgent = userAgent
	}
}

// WithLanguage sets the Accept-Language header sent with every request.
func WithLanguage(language string) Option {
	return func(o *options) {
		o.language = language
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

// WithMaxBodySize limits the size of any response body.
func WithMaxBodySize(size int64) Option {
	return func(o *options) {
		o.maxBodySize = size
	}
}

// WithLocation sets the time zone portal timestamps are read in.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		o.location = loc
	}
}

// WithLogger sets the logger for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Client is an authenticated session with one school's EduPage portal.
//
// The portal keeps the active identity on the server side: after
// SwitchToChild every data request answers for that child until
// SwitchToParent. Client is not safe for concurrent use.
type Client struct {
	subdomain   string
	baseURL     string
	httpClient  *http.Client
	logger      *slog.Logger
	maxBodySize int64
	mapper      *mapper

	home     userHomeDTO
	children []childEntry
	gsecHash string

	// activeID is the id data requests are made for.
	activeID string
}

// Login authenticates against https://{subdomain}.edupage.org and returns
// the session. ErrBadCredentials is returned when the portal rejects the
// username or password.
func Login(ctx context.Context, creds config.Credentials, subdomain string, opts ...Option) (*Client, error) {
	o := &options{
		baseURL:     "https://" + subdomain + ".edupage.org",
		timeout:     defaultTimeout,
		maxBodySize: config.DefaultMaxBodySize,
		userAgent:   config.DefaultUserAgent,
		location:    time.Local,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	httpClient, err := newHTTPClient(o)
	if err != nil {
		return nil, err
	}

	c := &Client{
		subdomain:   subdomain,
		baseURL:     o.baseURL,
		httpClient:  httpClient,
		logger:      o.logger.With("subdomain", subdomain),
		maxBodySize: o.maxBodySize,
	}

	if err := c.login(ctx, creds, o.location); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) login(ctx context.Context, creds config.Credentials, loc *time.Location) error {
	form, _, err := c.get(ctx, pathLoginForm)
	if err != nil {
		return fmt.Errorf("failed to load login form: %w", err)
	}

	token, err := extractCSRFToken(form)
	if err != nil {
		return err
	}

	values := url.Values{
		"csrfauth": {token},
		"username": {creds.Username},
		"password": {creds.Password},
	}
	c.logger.Debug("submitting login form", "username", creds.Username, "csrfauth", token)

	landing, finalURL, err := c.post(ctx, pathLogin, "application/x-www-form-urlencoded", strings.NewReader(values.Encode()))
	if err != nil {
		return fmt.Errorf("failed to submit login form: %w", err)
	}
	if strings.Contains(finalURL, loginRejectedMarker) {
		return ErrBadCredentials
	}

	home, err := parseUserHome(landing)
	if err != nil {
		return err
	}
	children, err := parseChildren(home.Children)
	if err != nil {
		return fmt.Errorf("%w: children: %w", ErrUnexpectedResponse, err)
	}

	match := gsecHashPattern.FindSubmatch(landing)
	if match == nil {
		return fmt.Errorf("%w: session hash not found", ErrUnexpectedResponse)
	}

	c.home = *home
	c.children = children
	c.gsecHash = string(match[1])
	c.activeID = home.UserID
	c.mapper = newMapper(home.DBI, loc)

	c.logger.Debug("logged in", "userid", home.UserID, "gsechash", c.gsecHash)
	return nil
}

// extractCSRFToken finds the csrfauth value of the login form.
func extractCSRFToken(page []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("failed to parse login form: %w", err)
	}
	token, ok := doc.Find(`input[name="csrfauth"]`).First().Attr("value")
	if !ok || token == "" {
		return "", ErrMissingCSRFToken
	}
	return token, nil
}

// parseUserHome decodes the session payload embedded in a portal page.
func parseUserHome(page []byte) (*userHomeDTO, error) {
	var home userHomeDTO
	if err := decodeEmbedded(page, markerUserHome, &home); err != nil {
		return nil, err
	}
	return &home, nil
}

// decodeEmbedded decodes the first JSON value following marker in page.
func decodeEmbedded(page []byte, marker string, v any) error {
	idx := bytes.Index(page, []byte(marker))
	if idx < 0 {
		return fmt.Errorf("%w: %q not found", ErrUnexpectedResponse, marker)
	}
	dec := json.NewDecoder(bytes.NewReader(page[idx+len(marker):]))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: decode %q payload: %w", ErrUnexpectedResponse, marker, err)
	}
	return nil
}

// Subdomain returns the school subdomain of the session.
func (c *Client) Subdomain() string {
	return c.subdomain
}

// Dependents returns the ids of the children linked to the account, in
// portal order. The parentStudentids list wins when present, even if empty;
// otherwise the keys of the children map are used.
func (c *Client) Dependents() []string {
	if c.home.ParentStudentIDs != nil {
		ids := make([]string, 0, len(*c.home.ParentStudentIDs))
		for _, id := range *c.home.ParentStudentIDs {
			if s := id.String(); s != "" {
				ids = append(ids, s)
			}
		}
		return ids
	}

	ids := make([]string, 0, len(c.children))
	for _, child := range c.children {
		ids = append(ids, child.ID)
	}
	return ids
}

// StudentName looks a student up in the portal database.
func (c *Client) StudentName(id string) (string, bool) {
	student, ok := c.home.DBI.Students[id]
	if !ok {
		return "", false
	}
	name := student.FullName()
	return name, name != ""
}

// ChildName returns the name recorded in the children map. ok is true when
// the child has an entry; name is empty when the entry has no name.
func (c *Client) ChildName(id string) (name string, ok bool) {
	for _, child := range c.children {
		if child.ID == id {
			return child.Name, true
		}
	}
	return "", false
}

// ActiveIdentity returns the id data requests are currently made for.
func (c *Client) ActiveIdentity() string {
	return c.activeID
}

// SetActiveIdentity sets the id data requests are made for.
func (c *Client) SetActiveIdentity(id string) {
	c.activeID = id
}

// SwitchToChild makes the portal answer for the given child.
func (c *Client) SwitchToChild(ctx context.Context, id string) error {
	return c.switchTo(ctx, id)
}

// SwitchToParent returns the portal session to the parent account.
func (c *Client) SwitchToParent(ctx context.Context) error {
	return c.switchTo(ctx, parentStudentID)
}

func (c *Client) switchTo(ctx context.Context, id string) error {
	body, _, err := c.get(ctx, pathSwitchChild+"?studentid="+url.QueryEscape(id))
	if err != nil {
		return err
	}
	if answer := strings.TrimSpace(string(body)); answer != switchOK {
		return fmt.Errorf("%w: studentid %s: %q", ErrSwitchRejected, id, truncate(answer, 80))
	}
	c.logger.Debug("switched identity", "studentid", id)
	return nil
}

// get issues a GET request and returns the body and the final URL after redirects.
func (c *Client) get(ctx context.Context, path string) ([]byte, string, error) {
	return c.do(ctx, http.MethodGet, path, "", nil)
}

// post issues a POST request with the given content type.
func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader) ([]byte, string, error) {
	return c.do(ctx, http.MethodPost, path, contentType, body)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	c.logger.Debug("portal request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := readBody(resp, c.maxBodySize)
	if err != nil {
		return nil, "", fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("%w: %s %s: %d", ErrHTTPStatus, method, path, resp.StatusCode)
	}

	return data, resp.Request.URL.String(), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
