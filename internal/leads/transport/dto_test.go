package transport

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func bindNearby(t *testing.T, query string) (NearbyRequest, error) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/v1/leads/nearby?"+query, nil)

	var req NearbyRequest
	err := c.ShouldBindQuery(&req)
	return req, err
}

func TestNearbyRequestBindsZeroCoordinates(t *testing.T) {
	req, err := bindNearby(t, "lat=0&lng=6.73")
	if err != nil {
		t.Fatalf("binding lat=0 failed: %v", err)
	}
	if req.Lat == nil || *req.Lat != 0 {
		t.Errorf("Lat = %v, want 0", req.Lat)
	}
	if req.Lng == nil || *req.Lng != 6.73 {
		t.Errorf("Lng = %v, want 6.73", req.Lng)
	}

	req, err = bindNearby(t, "lat=51.92&lng=0")
	if err != nil {
		t.Fatalf("binding lng=0 failed: %v", err)
	}
	if req.Lng == nil || *req.Lng != 0 {
		t.Errorf("Lng = %v, want 0", req.Lng)
	}
}

func TestNearbyRequestRejectsMissingCoordinate(t *testing.T) {
	if _, err := bindNearby(t, "lat=51.92"); err == nil {
		t.Error("expected error for missing lng")
	}
	if _, err := bindNearby(t, "lng=6.73"); err == nil {
		t.Error("expected error for missing lat")
	}
}

func TestNearbyRequestRejectsOutOfRangeCoordinate(t *testing.T) {
	if _, err := bindNearby(t, "lat=91&lng=6.73"); err == nil {
		t.Error("expected error for lat > 90")
	}
	if _, err := bindNearby(t, "lat=51.92&lng=-181"); err == nil {
		t.Error("expected error for lng < -180")
	}
}
