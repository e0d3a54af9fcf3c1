package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"

	"tableflip.dev/retailers/pkg/retailer"
)

const baseURL = "http://retailers.test"

func newClient(t *testing.T) *Client {
	t.Helper()
	c, err := New(baseURL + "/")
	assert.Nil(t, err)
	return c
}

func TestNew(t *testing.T) {
	t.Run("Rejects base url without scheme", func(t *testing.T) {
		_, err := New("retailers.test")
		assert.NotNil(t, err)
	})

	t.Run("Trims trailing slash", func(t *testing.T) {
		c, err := New("https://retailers.test/api/")
		assert.Nil(t, err)
		assert.Equal(t, "https://retailers.test/api", c.BaseURL)
	})
}

func TestGetRetailer(t *testing.T) {
	t.Run("Decodes the retailer", func(t *testing.T) {
		defer gock.Off()
		gock.New(baseURL).
			Get("/retailers/acme_store").
			MatchHeader(HeaderAcceptVersion, APIVersionV1).
			HeaderPresent(HeaderXCorrelationID).
			Reply(200).
			JSON(map[string]interface{}{
				"name":          "acme_store",
				"bq_ga_table":   "project.dataset.events_",
				"time_zone":     "America/New_York",
				"max_backfill":  120,
				"is_active":     "on",
				"bq_updated_at": "",
			})

		r, err := newClient(t).GetRetailer(context.Background(), "acme_store")
		assert.Nil(t, err)
		assert.Equal(t, "acme_store", r.Name)
		assert.Equal(t, 120, r.MaxBackfill)
		assert.Equal(t, retailer.Flag(true), r.IsActive)
		assert.NotNil(t, r.BQUpdatedAt)
		assert.True(t, gock.IsDone())
	})

	t.Run("Maps 404 to ErrNotFound", func(t *testing.T) {
		defer gock.Off()
		gock.New(baseURL).
			Get("/retailers/missing").
			Reply(404).
			JSON(map[string]string{"message": "Retailer missing not found"})

		_, err := newClient(t).GetRetailer(context.Background(), "missing")
		assert.True(t, errors.Is(err, ErrNotFound))
		assert.Equal(t, "retailers api: 404 Retailer missing not found", err.Error())
	})

	t.Run("Reports validation errors", func(t *testing.T) {
		defer gock.Off()
		gock.New(baseURL).
			Get("/retailers/acme_store").
			Reply(400).
			JSON(map[string]interface{}{
				"message": "Request validation failed",
				"errors":  []string{"bad header"},
			})

		_, err := newClient(t).GetRetailer(context.Background(), "acme_store")
		var apiErr *Error
		assert.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusBadRequest, apiErr.Status)
		assert.Equal(t, "Request validation failed: bad header", apiErr.Message)
	})
}

func noManagedFields(t *testing.T) gock.MatchFunc {
	return func(req *http.Request, _ *gock.Request) (bool, error) {
		data, err := io.ReadAll(req.Body)
		if err != nil {
			return false, err
		}
		req.Body = io.NopCloser(bytes.NewReader(data))
		var body map[string]interface{}
		if err := json.Unmarshal(data, &body); err != nil {
			return false, err
		}
		_, present := body[retailer.FieldBQUpdatedAt]
		assert.False(t, present, "write carried %s", retailer.FieldBQUpdatedAt)
		return !present, nil
	}
}

func TestAddRetailer(t *testing.T) {
	defer gock.Off()
	gock.New(baseURL).
		Post("/retailers").
		MatchType("json").
		AddMatcher(noManagedFields(t)).
		Reply(201).
		JSON(map[string]interface{}{"name": "acme_store", "max_backfill": 90, "is_active": true})

	stamp := ""
	in := retailer.Defaults()
	in.Name = "acme_store"
	in.BQUpdatedAt = &stamp

	out, err := newClient(t).AddRetailer(context.Background(), in)
	assert.Nil(t, err)
	assert.Equal(t, "acme_store", out.Name)
	assert.NotNil(t, in.BQUpdatedAt, "caller's record must not be mutated")
	assert.True(t, gock.IsDone())
}

func TestUpdateRetailer(t *testing.T) {
	defer gock.Off()
	gock.New(baseURL).
		Put("/retailers/acme_store").
		AddMatcher(noManagedFields(t)).
		Reply(200).
		JSON(map[string]interface{}{"name": "acme_store", "time_zone": "UTC"})

	stamp := "2024-07-10T12:00:00Z"
	in := retailer.Defaults()
	in.Name = "acme_store"
	in.TimeZone = "UTC"
	in.BQUpdatedAt = &stamp

	out, err := newClient(t).UpdateRetailer(context.Background(), in)
	assert.Nil(t, err)
	assert.Equal(t, "UTC", out.TimeZone)
	assert.True(t, gock.IsDone())
}

func TestListAndDelete(t *testing.T) {
	defer gock.Off()
	gock.New(baseURL).
		Get("/retailers").
		Reply(200).
		JSON([]map[string]interface{}{{"name": "a_store"}, {"name": "b_store"}})
	gock.New(baseURL).
		Delete("/retailers/a_store").
		Reply(204)

	c := newClient(t)
	list, err := c.ListRetailers(context.Background())
	assert.Nil(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, "b_store", list[1].Name)

	assert.Nil(t, c.DeleteRetailer(context.Background(), "a_store"))
	assert.True(t, gock.IsDone())
}

func TestTransportError(t *testing.T) {
	defer gock.Off()
	gock.New(baseURL).
		Get("/retailers/acme_store").
		ReplyError(errors.New("connection refused"))

	_, err := newClient(t).GetRetailer(context.Background(), "acme_store")
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}
