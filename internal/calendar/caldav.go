package calendar

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/dawnfire/dashboard/internal/apperr"
	"github.com/dawnfire/dashboard/internal/upstream"
)

const (
	propfindBody = `<?xml version="1.0" encoding="utf-8" ?>
<d:propfind xmlns:d="DAV:" xmlns:cs="http://calendarserver.org/ns/">
  <d:prop>
    <d:resourcetype />
    <d:displayname />
  </d:prop>
</d:propfind>`

	reportBodyTemplate = `<?xml version="1.0" encoding="utf-8" ?>
<c:calendar-query xmlns:d="DAV:" xmlns:c="urn:ietf:params:xml:ns:caldav">
  <d:prop>
    <d:getetag />
    <c:calendar-data />
  </d:prop>
  <c:filter>
    <c:comp-filter name="VCALENDAR">
      <c:comp-filter name="VEVENT">
        <c:time-range start="%s" end="%s"/>
      </c:comp-filter>
    </c:comp-filter>
  </c:filter>
</c:calendar-query>`

	caldavTimeLayout = "20060102T150405Z"
)

// CalDAVClient talks to a Nextcloud-style CalDAV server: PROPFIND for
// calendar discovery and REPORT calendar-queries for events.
type CalDAVClient struct {
	baseURL  string
	user     string
	password string
	httpCfg  upstream.Config
	circuit  *gobreaker.CircuitBreaker
}

// NewCalDAVClient creates a CalDAV client for the given server base URL
// and credentials.
func NewCalDAVClient(client *http.Client, baseURL, user, password string) *CalDAVClient {
	return &CalDAVClient{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		user:     user,
		password: password,
		httpCfg: upstream.Config{
			Client:  client,
			Backoff: upstream.DefaultBackoff(),
		},
		circuit: upstream.NewBreaker("caldav"),
	}
}

// multistatus is the DAV XML response envelope. Field tags are
// namespace-qualified so any prefix the server picks (d:, D:, cal:)
// resolves the same way.
type multistatus struct {
	Responses []davResponse `xml:"DAV: response"`
}

type davResponse struct {
	Href      string     `xml:"DAV: href"`
	Propstats []propstat `xml:"DAV: propstat"`
}

type propstat struct {
	Prop davProp `xml:"DAV: prop"`
}

type davProp struct {
	DisplayName  string       `xml:"DAV: displayname"`
	ResourceType resourceType `xml:"DAV: resourcetype"`
	CalendarData string       `xml:"urn:ietf:params:xml:ns:caldav calendar-data"`
}

type resourceType struct {
	Calendar *struct{} `xml:"urn:ietf:params:xml:ns:caldav calendar"`
}

// Discover lists the user's calendars with a depth-1 PROPFIND against
// the calendar-home collection. The home collection itself is excluded
// from the result; calendars without a display name fall back to the
// last path segment of their href.
func (c *CalDAVClient) Discover(ctx context.Context) ([]CalendarRef, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}

	homeURL := c.baseURL + "/remote.php/dav/calendars/" + c.user + "/"
	body, err := c.do(ctx, "PROPFIND", homeURL, propfindBody)
	if err != nil {
		var statusErr *upstream.StatusError
		if errors.As(err, &statusErr) {
			return nil, apperr.Upstream("caldav discovery", statusErr.Status)
		}
		return nil, err
	}

	var ms multistatus
	if err := xml.Unmarshal(body, &ms); err != nil {
		return nil, apperr.UpstreamData("caldav discovery response is not valid XML")
	}

	homeSuffix := "/" + c.user + "/"
	var calendars []CalendarRef
	for _, resp := range ms.Responses {
		prop, ok := firstProp(resp)
		if !ok {
			continue
		}
		if prop.ResourceType.Calendar == nil || resp.Href == "" {
			continue
		}
		if strings.HasSuffix(resp.Href, homeSuffix) {
			continue
		}

		name := prop.DisplayName
		if name == "" {
			name = lastPathSegment(resp.Href)
		}
		calendars = append(calendars, CalendarRef{Href: resp.Href, Name: name})
	}

	return calendars, nil
}

// Report fetches the raw calendar-data blocks for events in [start, end]
// from one calendar.
func (c *CalDAVClient) Report(ctx context.Context, cal CalendarRef, start, end time.Time) ([]string, error) {
	reportBody := fmt.Sprintf(reportBodyTemplate,
		start.UTC().Format(caldavTimeLayout),
		end.UTC().Format(caldavTimeLayout))
	body, err := c.do(ctx, "REPORT", c.baseURL+cal.Href, reportBody)
	if err != nil {
		var statusErr *upstream.StatusError
		if errors.As(err, &statusErr) {
			return nil, apperr.Upstream("caldav report", statusErr.Status)
		}
		return nil, err
	}

	var ms multistatus
	if err := xml.Unmarshal(body, &ms); err != nil {
		return nil, apperr.UpstreamData("caldav report response is not valid XML")
	}

	var blocks []string
	for _, resp := range ms.Responses {
		if prop, ok := firstProp(resp); ok && prop.CalendarData != "" {
			blocks = append(blocks, prop.CalendarData)
		}
	}

	return blocks, nil
}

func (c *CalDAVClient) validate() error {
	if c.baseURL == "" || c.user == "" || c.password == "" {
		return apperr.Config("CalDAV credentials not configured")
	}
	return nil
}

func (c *CalDAVClient) do(ctx context.Context, method, url, reqBody string) ([]byte, error) {
	buildRequest := func() (*http.Request, error) {
		req, err := http.NewRequest(method, url, strings.NewReader(reqBody))
		if err != nil {
			return nil, err
		}
		req.SetBasicAuth(c.user, c.password)
		req.Header.Set("Content-Type", "application/xml; charset=utf-8")
		req.Header.Set("Depth", "1")
		return req, nil
	}

	resp, err := upstream.Do(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

func firstProp(resp davResponse) (davProp, bool) {
	if len(resp.Propstats) == 0 {
		return davProp{}, false
	}
	return resp.Propstats[0].Prop, true
}

func lastPathSegment(href string) string {
	segments := strings.Split(href, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" {
			return segments[i]
		}
	}
	return href
}
