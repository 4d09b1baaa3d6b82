package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	. "github.com/simtahfidz/backend/apps/api/echo"
	"github.com/simtahfidz/backend/core/user"
	"github.com/simtahfidz/backend/testutil"
)

var (
	errMissingToken   = httpErr{Error: "missing or malformed jwt"}
	errSessionRevoked = httpErr{Error: "session expired or revoked"}
	errForbidden      = httpErr{Error: "permission denied"}
)

type app struct {
	*testutil.Services
	server *Server
}

func setup(t *testing.T) app {
	t.Helper()

	conf := testutil.NewConfig()
	svcs := testutil.NewServices(conf)
	validate, translator := testutil.NewValidate()

	server := NewServer(Deps{
		Conf:       conf,
		Logger:     svcs.Logger,
		Metrics:    svcs.Metrics,
		Validate:   validate,
		Translator: translator,
		UserSvc:    svcs.UserSvc,
		ClassSvc:   svcs.ClassSvc,
		QuranSvc:   svcs.QuranSvc,
		TagSvc:     svcs.TagSvc,
		SantriSvc:  svcs.SantriSvc,
		GuruSvc:    svcs.GuruSvc,
		SetoranSvc: svcs.SetoranSvc,
		ReportSvc:  svcs.ReportSvc,
	})
	return app{Services: svcs, server: server}
}

func (a app) serve(req *http.Request, rec *httptest.ResponseRecorder) {
	a.server.ServeHTTP(rec, req)
}

// getToken opens a session for `usr` and signs a token for it.
func (a app) getToken(t *testing.T, usr user.User) string {
	t.Helper()

	now := time.Now().UTC()
	sess, err := a.UserRepo.CreateSession(context.Background(), user.Session{
		ID:        uuid.New().String(),
		UserID:    usr.ID,
		ExpiresAt: now.Add(a.Conf.Server.JWTRefreshExpirationDelta),
		CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	token, err := GenerateToken(GetUserClaims(a.Conf, usr, sess.ID), a.Conf.SecretKey)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func (a app) runTests(t *testing.T, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			req, rec := newAuthRequest(method, tt.path, tt.token, tt.body)
			a.serve(req, rec)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj(): %v", err)
	}
	return data
}

func unmarshall(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), dest); err != nil {
		t.Fatalf("unmarshall(%s): %v", rec.Body.String(), err)
	}
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	wantCode := tt.wantCode
	if wantCode == 0 {
		wantCode = http.StatusOK
	}
	if rec.Code != wantCode {
		t.Errorf("failed! code = %v; wantCode %v; body %s", rec.Code, wantCode, rec.Body.String())
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
