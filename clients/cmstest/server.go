// Package cmstest runs an in-memory Directus lookalike for tests. It serves
// the items and files endpoints the storefront uses, honours _eq filters,
// sort and limit, and records every request it receives.
package cmstest

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

var filterKey = regexp.MustCompile(`^filter\[(.+)\]\[_eq\]$`)

// Request is one call received by the server.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   []byte
	Auth   string
}

// UploadedFile is a file received on /files.
type UploadedFile struct {
	ID          string
	Filename    string
	ContentType string
	Size        int
}

// Server is the fake CMS. Create it with NewServer and Close it when done.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	items     map[string][]map[string]any
	relations map[string]string
	failures  map[string]int
	requests  []Request
	files     []UploadedFile
	nextID    int
}

// NewServer starts a fake CMS on a random local port.
func NewServer() *Server {
	gin.SetMode(gin.TestMode)
	s := &Server{
		items:     make(map[string][]map[string]any),
		relations: make(map[string]string),
		failures:  make(map[string]int),
		nextID:    1000,
	}

	r := gin.New()
	r.Use(s.record)
	r.GET("/items/:collection", s.list)
	r.GET("/items/:collection/:id", s.get)
	r.POST("/items/:collection", s.create)
	r.PATCH("/items/:collection/:id", s.update)
	r.DELETE("/items/:collection/:id", s.remove)
	r.POST("/files", s.upload)

	s.Server = httptest.NewServer(r)
	return s
}

// Seed stores records in collection. Records without an "id" get one.
func (s *Server) Seed(collection string, records ...map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range records {
		if _, ok := rec["id"]; !ok {
			rec["id"] = float64(s.nextID)
			s.nextID++
		}
		s.items[collection] = append(s.items[collection], rec)
	}
}

// Relate makes fields=*.* expand collection.field into a record of target.
func (s *Server) Relate(collection, field, target string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.relations[collection+"."+field] = target
}

// FailWith makes every call touching collection answer status. Use "files"
// for uploads. A zero status clears the failure.
func (s *Server) FailWith(collection string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.failures, collection)
		return
	}
	s.failures[collection] = status
}

// Requests returns a copy of everything received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Files returns the uploads received so far.
func (s *Server) Files() []UploadedFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]UploadedFile(nil), s.files...)
}

// Record returns the stored record with id, if any.
func (s *Server) Record(collection, id string) (map[string]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, rec := s.find(collection, id)
	return rec, rec != nil
}

// Count returns how many records collection holds.
func (s *Server) Count(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items[collection])
}

func (s *Server) record(c *gin.Context) {
	var body []byte
	if !strings.HasPrefix(c.ContentType(), "multipart/") && c.Request.Body != nil {
		body, _ = io.ReadAll(c.Request.Body)
		c.Request.Body = io.NopCloser(strings.NewReader(string(body)))
	}
	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method: c.Request.Method,
		Path:   c.Request.URL.Path,
		Query:  c.Request.URL.Query(),
		Body:   body,
		Auth:   c.GetHeader("Authorization"),
	})
	status, failing := s.failures[collectionOf(c.Request.URL.Path)]
	s.mu.Unlock()

	if failing {
		c.AbortWithStatusJSON(status, gin.H{"errors": []gin.H{{"message": "forced failure"}}})
		return
	}
	c.Next()
}

func (s *Server) list(c *gin.Context) {
	collection := c.Param("collection")
	query := c.Request.URL.Query()

	s.mu.Lock()
	var out []map[string]any
	for _, rec := range s.items[collection] {
		if matches(rec, query) {
			out = append(out, s.expand(collection, rec, query.Get("fields")))
		}
	}
	s.mu.Unlock()

	if expr := query.Get("sort"); expr != "" {
		sortRecords(out, expr)
	}
	if n, err := strconv.Atoi(query.Get("limit")); err == nil && n >= 0 && n < len(out) {
		out = out[:n]
	}
	if out == nil {
		out = []map[string]any{}
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (s *Server) get(c *gin.Context) {
	collection := c.Param("collection")
	s.mu.Lock()
	_, rec := s.find(collection, c.Param("id"))
	var data map[string]any
	if rec != nil {
		data = s.expand(collection, rec, c.Query("fields"))
	}
	s.mu.Unlock()

	if data == nil {
		c.JSON(http.StatusNotFound, gin.H{"errors": []gin.H{{"message": "Item not found"}}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}

func (s *Server) create(c *gin.Context) {
	var rec map[string]any
	if err := json.NewDecoder(c.Request.Body).Decode(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []gin.H{{"message": err.Error()}}})
		return
	}
	s.Seed(c.Param("collection"), rec)
	c.JSON(http.StatusOK, gin.H{"data": rec})
}

func (s *Server) update(c *gin.Context) {
	var patch map[string]any
	if err := json.NewDecoder(c.Request.Body).Decode(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []gin.H{{"message": err.Error()}}})
		return
	}

	s.mu.Lock()
	_, rec := s.find(c.Param("collection"), c.Param("id"))
	if rec != nil {
		for k, v := range patch {
			rec[k] = v
		}
	}
	s.mu.Unlock()

	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"errors": []gin.H{{"message": "Item not found"}}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rec})
}

func (s *Server) remove(c *gin.Context) {
	collection := c.Param("collection")
	s.mu.Lock()
	idx, _ := s.find(collection, c.Param("id"))
	if idx >= 0 {
		s.items[collection] = append(s.items[collection][:idx], s.items[collection][idx+1:]...)
	}
	s.mu.Unlock()

	if idx < 0 {
		c.JSON(http.StatusNotFound, gin.H{"errors": []gin.H{{"message": "Item not found"}}})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []gin.H{{"message": err.Error()}}})
		return
	}

	s.mu.Lock()
	id := fmt.Sprintf("file-%d", s.nextID)
	s.nextID++
	s.files = append(s.files, UploadedFile{
		ID:          id,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        int(fh.Size),
	})
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"id": id, "filename_download": fh.Filename}})
}

// find returns the index and record with id; callers hold s.mu.
func (s *Server) find(collection, id string) (int, map[string]any) {
	for i, rec := range s.items[collection] {
		if scalar(rec["id"]) == id {
			return i, rec
		}
	}
	return -1, nil
}

// expand copies rec and, for fields=*.*, replaces related ids with records.
func (s *Server) expand(collection string, rec map[string]any, fields string) map[string]any {
	out := make(map[string]any, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	if !strings.Contains(fields, "*.*") {
		return out
	}
	for k, v := range rec {
		target, ok := s.relations[collection+"."+k]
		if !ok {
			continue
		}
		if _, related := s.find(target, scalar(v)); related != nil {
			out[k] = related
		}
	}
	return out
}

func matches(rec map[string]any, query url.Values) bool {
	for key, values := range query {
		m := filterKey.FindStringSubmatch(key)
		if m == nil {
			continue
		}
		if scalar(rec[m[1]]) != values[0] {
			return false
		}
	}
	return true
}

func sortRecords(recs []map[string]any, expr string) {
	desc := strings.HasPrefix(expr, "-")
	field := strings.TrimPrefix(expr, "-")
	sort.SliceStable(recs, func(i, j int) bool {
		c := compare(recs[i][field], recs[j][field])
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func compare(a, b any) int {
	fa, aNum := a.(float64)
	fb, bNum := b.(float64)
	if aNum && bNum {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	return strings.Compare(scalar(a), scalar(b))
}

func scalar(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case map[string]any:
		return scalar(t["id"])
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

func collectionOf(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) >= 2 && parts[0] == "items" {
		return parts[1]
	}
	return parts[0]
}
