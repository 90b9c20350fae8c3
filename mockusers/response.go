package mockusers

import (
	"encoding/json"
	"net/http"

	"github.com/belyf/users-contract-tests/framework/mockserver"
	"github.com/belyf/users-contract-tests/servicedef"
)

const (
	contentTypeJSON  = "application/json"
	contentTypePlain = "text/plain"
)

// marshal is swapped in tests to exercise the serialization failure path.
var marshal = json.Marshal

func jsonResponse(status int, body interface{}) mockserver.Response {
	data, err := marshal(body)
	if err != nil {
		return mockserver.Response{Status: http.StatusInternalServerError, Body: []byte(err.Error())}
	}
	return mockserver.Response{
		Status: status,
		Header: http.Header{"Content-Type": []string{contentTypeJSON}},
		Body:   data,
	}
}

func usersResponse(status int, users ...User) mockserver.Response {
	records := make([]servicedef.UserRecord, 0, len(users))
	for _, u := range users {
		records = append(records, u.Record())
	}
	return jsonResponse(status, records)
}

func errorResponse(status int, message string) mockserver.Response {
	return jsonResponse(status, servicedef.NewErrorEnvelope(message))
}

func statusResponse(status int) mockserver.Response {
	return mockserver.Response{Status: status}
}

func textResponse(status int, body string) mockserver.Response {
	return mockserver.Response{
		Status: status,
		Header: http.Header{"Content-Type": []string{contentTypePlain}},
		Body:   []byte(body),
	}
}
