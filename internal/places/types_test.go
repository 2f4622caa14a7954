package places

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func bindNearby(t *testing.T, query string) (NearbyRequest, error) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/v1/places/nearby?"+query, nil)

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
}

func TestNearbyRequestRejectsMissingCoordinate(t *testing.T) {
	if _, err := bindNearby(t, "lat=51.92"); err == nil {
		t.Error("expected error for missing lng")
	}
}
