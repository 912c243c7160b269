package rest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

var errConflict = fmt.Errorf("%w: user is already INACTIVE", common.ErrorConflict)

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

func newRequest(method, path, authorization string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", authorization)
	return req
}

func serve(env *testEnv, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)
	return rec
}
