package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/sma-absence-api/internal/dto"
	"github.com/noah-isme/sma-absence-api/internal/models"
)

type fakeAuditSrv struct {
	lastActor dto.Actor
	lastLimit int
}

func (f *fakeAuditSrv) Recent(_ context.Context, actor dto.Actor, limit int) ([]models.AuditLog, error) {
	f.lastActor = actor
	f.lastLimit = limit
	return []models.AuditLog{{ID: "1", Action: models.AuditActionAbsenceRecord}}, nil
}

func TestAuditHandlerRecent(t *testing.T) {
	srv := &fakeAuditSrv{}
	handler := NewAuditHandler(srv)
	c, rec := newTestContext(http.MethodGet, "/audit?limit=10", "")
	withSession(c, "Wing A", false)

	handler.Recent(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 10, srv.lastLimit)
	assert.Equal(t, "Wing A", srv.lastActor.Division)
	assert.Equal(t, float64(1), decodeEnvelope(t, rec).Meta["count"])
}
