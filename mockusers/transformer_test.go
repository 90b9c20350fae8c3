package mockusers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/belyf/users-contract-tests/framework/mockserver"
	"github.com/belyf/users-contract-tests/servicedef"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const kamatchiJSON = `{"first_name":"Kamatchi","last_name":"Manickam","email":"kamu@belyf.com","age":"29"}`

func newTestTransformer() *Transformer {
	return NewTransformer(NewStore(sequentialIDs("gen-")))
}

func request(method, target, body string) mockserver.Request {
	u, err := url.Parse(target)
	if err != nil {
		panic(err)
	}
	return mockserver.Request{
		Method:   method,
		Path:     u.Path,
		RawQuery: u.RawQuery,
		Query:    u.Query(),
		Body:     []byte(body),
	}
}

func decodeRecords(t *testing.T, resp mockserver.Response) []servicedef.UserRecord {
	var records []servicedef.UserRecord
	require.NoError(t, json.Unmarshal(resp.Body, &records), string(resp.Body))
	return records
}

func assertError(t *testing.T, resp mockserver.Response, status int, message string) {
	t.Helper()
	assert.Equal(t, status, resp.Status)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"code":null,"details":null,"hint":null,"message":`+mustJSON(message)+`}`, string(resp.Body))
}

func mustJSON(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(data)
}

func TestRootPathIsLivenessProbe(t *testing.T) {
	resp := newTestTransformer().Transform(request("GET", "/", ""))
	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, "OK", string(resp.Body))
	assert.Equal(t, "text/plain", resp.Header.Get("Content-Type"))
}

func TestUnknownAndInvalidPaths(t *testing.T) {
	tr := newTestTransformer()
	for _, target := range []string{"/accounts", "/users/invalid", "/users/invalid/deeper", "/users/x/invalid"} {
		for _, method := range []string{"GET", "POST", "PUT"} {
			resp := tr.Transform(request(method, target, kamatchiJSON))
			assert.Equal(t, 404, resp.Status, "%s %s", method, target)
			assert.Empty(t, resp.Body)
		}
	}
	assert.Equal(t, 0, tr.Store().Len())
}

func TestUnsupportedMethod(t *testing.T) {
	tr := newTestTransformer()
	for _, method := range []string{"PUT", "HEAD", "OPTIONS"} {
		assert.Equal(t, 405, tr.Transform(request(method, "/users", "")).Status, method)
	}
}

func TestCreateScenario(t *testing.T) {
	tr := newTestTransformer()
	resp := tr.Transform(request("POST", "/users", kamatchiJSON))

	assert.Equal(t, 201, resp.Status)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t,
		`[{"id":"gen-1","first_name":"Kamatchi","last_name":"Manickam","email":"kamu@belyf.com","age":29}]`,
		string(resp.Body))
}

func TestCreateWithRandomIDs(t *testing.T) {
	tr := NewTransformer(nil)
	seed := tr.ResetWithSeed(User{Email: "seed@x.io", FirstName: "S", Age: AgeOf("30")})
	require.NotEmpty(t, seed.ID)

	resp := tr.Transform(request("POST", "/users", kamatchiJSON))
	require.Equal(t, 201, resp.Status)
	records := decodeRecords(t, resp)
	require.Len(t, records, 1)
	assert.NotEmpty(t, records[0].ID)
	assert.NotEqual(t, seed.ID, records[0].ID)
}

func TestCreateKeepsGivenID(t *testing.T) {
	tr := newTestTransformer()
	resp := tr.Transform(request("POST", "/users",
		`{"id":"mine","first_name":"A","email":"a@x.io","age":40,"unknown":"ignored"}`))
	require.Equal(t, 201, resp.Status)
	assert.Equal(t, `[{"id":"mine","first_name":"A","last_name":null,"email":"a@x.io","age":40}]`, string(resp.Body))
}

func TestCreateValidation(t *testing.T) {
	tr := newTestTransformer()
	cases := []struct {
		body    string
		message string
	}{
		{`{"email":"","first_name":"x","age":"30"}`, MessageEmailNotNull},
		{`{"email":"a@x.io","age":"30"}`, MessageFirstNameNotNull},
		{`{"email":"bad","first_name":"x","age":"30"}`, MessageEmailFormat},
		{`{"email":"a@x.io","first_name":"x"}`, MessageAgePositive},
		{`{"email":"a@x.io","first_name":"x","age":"thirty"}`, MessageInvalidInteger},
		{`{"email":"a@x.io","first_name":"x","age":"0"}`, MessageAgePositive},
		{`{"email":"a@x.io","first_name":"x","age":"150"}`, MessageAgePositive},
	}
	for _, c := range cases {
		assertError(t, tr.Transform(request("POST", "/users", c.body)), 400, c.message)
	}
	assert.Equal(t, 0, tr.Store().Len())

	resp := tr.Transform(request("POST", "/users", `{"email":"a@x.io","first_name":"x","age":"149"}`))
	assert.Equal(t, 201, resp.Status)
}

func TestCreateMalformedBody(t *testing.T) {
	tr := newTestTransformer()
	for _, body := range []string{"", "{", "null", `{"first_name":5}`, `{"age":[1]}`} {
		assertError(t, tr.Transform(request("POST", "/users", body)), 400, MessageInvalidInteger)
	}
}

func TestCreateDuplicateEmailIgnoresCase(t *testing.T) {
	tr := newTestTransformer()
	tr.ResetWithSeed(User{Email: "a@b.com", FirstName: "Seed", Age: AgeOf("30")})

	resp := tr.Transform(request("POST", "/users", `{"email":"A@B.com","first_name":"x","age":"30"}`))
	assertError(t, resp, 409, MessageDuplicateEmail)
	assert.Equal(t, 1, tr.Store().Len())
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	tr := newTestTransformer()
	tr.ResetWithSeed(User{Email: "seed@x.io", FirstName: "S", Age: AgeOf("30")})
	created := decodeRecords(t, tr.Transform(request("POST", "/users", kamatchiJSON)))
	require.Len(t, created, 1)

	resp := tr.Transform(request("GET", "/users?id=eq."+created[0].ID, ""))
	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, created, decodeRecords(t, resp))
}

func TestList(t *testing.T) {
	tr := newTestTransformer()
	resp := tr.Transform(request("GET", "/users", ""))
	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, "[]", string(resp.Body))

	for _, email := range []string{"1@x.io", "2@x.io", "3@x.io"} {
		require.Equal(t, 201, tr.Transform(request("POST", "/users",
			`{"email":"`+email+`","first_name":"x","age":"30"}`)).Status)
	}

	ids := func(resp mockserver.Response) []string {
		var ret []string
		for _, r := range decodeRecords(t, resp) {
			ret = append(ret, r.ID)
		}
		return ret
	}
	assert.Equal(t, []string{"gen-1", "gen-2", "gen-3"}, ids(tr.Transform(request("GET", "/users", ""))))
	assert.Equal(t, []string{"gen-1", "gen-3"}, ids(tr.Transform(request("GET", "/users?id=in.(gen-3,gen-1,zzz)", ""))))
	assert.Equal(t, []string{"gen-1", "gen-2", "gen-3"}, ids(tr.Transform(request("GET", "/users?id=neq.gen-1", ""))))
	assert.Equal(t, "[]", string(tr.Transform(request("GET", "/users?id=eq.zzz", "")).Body))
}

func TestListRendersUnparseableAgeAsZero(t *testing.T) {
	tr := newTestTransformer()
	tr.ResetWithSeed(User{ID: "s", Email: "s@x.io", FirstName: "S", Age: AgeOf("unknown")})

	resp := tr.Transform(request("GET", "/users", ""))
	assert.Equal(t, `[{"id":"s","first_name":"S","last_name":null,"email":"s@x.io","age":0}]`, string(resp.Body))
}

func TestUpdate(t *testing.T) {
	tr := newTestTransformer()
	seed := tr.ResetWithSeed(User{Email: "kamu@belyf.com", FirstName: "Kamatchi", LastName: ldvalue.NewOptionalString("Manickam"), Age: AgeOf("29")})

	resp := tr.Transform(request("PATCH", "/users?id=eq."+seed.ID, `{"first_name":"Kamu","last_name":"","age":"31"}`))
	assert.Equal(t, 200, resp.Status)
	assert.Equal(t,
		`[{"id":"gen-1","first_name":"Kamu","last_name":"Manickam","email":"kamu@belyf.com","age":31}]`,
		string(resp.Body))

	stored, _ := tr.Store().Get(seed.ID)
	assert.Equal(t, "Kamu", stored.FirstName)
}

func TestUpdateSkipsValidation(t *testing.T) {
	tr := newTestTransformer()
	seed := tr.ResetWithSeed(User{Email: "kamu@belyf.com", FirstName: "Kamatchi", Age: AgeOf("29")})

	resp := tr.Transform(request("PATCH", "/users?id=eq."+seed.ID, `{"email":"not-an-email","age":"abc"}`))
	assert.Equal(t, 200, resp.Status)
	records := decodeRecords(t, resp)
	require.Len(t, records, 1)
	assert.Equal(t, "not-an-email", records[0].Email)
	assert.Equal(t, 0, records[0].Age)
}

func TestUpdateNotFound(t *testing.T) {
	tr := newTestTransformer()
	seed := tr.ResetWithSeed(User{Email: "kamu@belyf.com", FirstName: "Kamatchi", Age: AgeOf("29")})

	for _, target := range []string{"/users", "/users?id=eq.nope", "/users?id=in.(" + seed.ID + ")", "/users?id=" + seed.ID} {
		resp := tr.Transform(request("PATCH", target, `{"first_name":"x"}`))
		assert.Equal(t, 404, resp.Status, target)
	}
}

func TestUpdateMalformedBody(t *testing.T) {
	tr := newTestTransformer()
	seed := tr.ResetWithSeed(User{Email: "kamu@belyf.com", FirstName: "Kamatchi", Age: AgeOf("29")})
	assertError(t, tr.Transform(request("PATCH", "/users?id=eq."+seed.ID, "not json")), 400, MessageInvalidInteger)
}

func TestDeleteOne(t *testing.T) {
	tr := newTestTransformer()
	seed := tr.ResetWithSeed(User{Email: "kamu@belyf.com", FirstName: "Kamatchi", Age: AgeOf("29")})

	resp := tr.Transform(request("DELETE", "/users?id=eq."+seed.ID, ""))
	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, "[]", string(resp.Body))

	resp = tr.Transform(request("GET", "/users?id=eq."+seed.ID, ""))
	assert.Equal(t, "[]", string(resp.Body))

	resp = tr.Transform(request("DELETE", "/users?id=eq."+seed.ID, ""))
	assert.Equal(t, 200, resp.Status)
}

func TestDeleteMany(t *testing.T) {
	tr := newTestTransformer()
	seed := tr.ResetWithSeed(User{Email: "kamu@belyf.com", FirstName: "Kamatchi", Age: AgeOf("29")})

	resp := tr.Transform(request("DELETE", "/users?id=in.("+seed.ID+",unknown)", ""))
	assert.Equal(t, 204, resp.Status)
	assert.Empty(t, resp.Body)
	assert.Equal(t, 0, tr.Store().Len())
}

func TestDeleteRequiresRecognizedFilter(t *testing.T) {
	tr := newTestTransformer()
	tr.ResetWithSeed(User{Email: "kamu@belyf.com", FirstName: "Kamatchi", Age: AgeOf("29")})

	for _, target := range []string{"/users", "/users?id=", "/users?id=gte.1"} {
		assert.Equal(t, 404, tr.Transform(request("DELETE", target, "")).Status, target)
	}
	assert.Equal(t, 1, tr.Store().Len())
}

func TestCustomResourcePath(t *testing.T) {
	tr := NewTransformer(NewStore(sequentialIDs("p")), WithResourcePath("/people"))
	assert.Equal(t, 404, tr.Transform(request("GET", "/users", "")).Status)
	assert.Equal(t, 201, tr.Transform(request("POST", "/people", kamatchiJSON)).Status)
}

func TestSerializationFailure(t *testing.T) {
	saved := marshal
	marshal = func(interface{}) ([]byte, error) { return nil, errors.New("boom") }
	defer func() { marshal = saved }()

	resp := newTestTransformer().Transform(request("GET", "/users", ""))
	assert.Equal(t, 500, resp.Status)
	assert.Equal(t, "boom", string(resp.Body))
}

func TestInstalledInMockServer(t *testing.T) {
	server := mockserver.New()
	tr := newTestTransformer()
	Install(server, tr)
	tr.ResetWithSeed(User{Email: "seed@x.io", FirstName: "Seed", Age: AgeOf("30")})

	httphelpers.WithServer(server.Handler(), func(ts *httptest.Server) {
		resp, err := http.Get(ts.URL + "/")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, 200, resp.StatusCode)

		resp, err = http.Post(ts.URL+"/users", "application/json", strings.NewReader(kamatchiJSON))
		require.NoError(t, err)
		var created []servicedef.UserRecord
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
		resp.Body.Close()
		assert.Equal(t, 201, resp.StatusCode)
		require.Len(t, created, 1)

		req, _ := http.NewRequest("DELETE", ts.URL+"/users?id=in.(gen-1,"+created[0].ID+")", nil)
		resp, err = http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, 204, resp.StatusCode)

		resp, err = http.Get(ts.URL + "/elsewhere")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, 404, resp.StatusCode)
	})
	assert.Equal(t, 0, tr.Store().Len())
}

func TestRecordsSnapshot(t *testing.T) {
	tr := newTestTransformer()
	assert.Empty(t, tr.Records())
	seed := tr.ResetWithSeed(User{Email: "seed@x.io", FirstName: "S", Age: AgeOf("30")})

	records := tr.Records()
	require.Len(t, records, 1)
	assert.Equal(t, seed, records[0])

	records[0].FirstName = "changed"
	stored, _ := tr.Store().Get(seed.ID)
	assert.Equal(t, "S", stored.FirstName)
}

func TestCreateRejectsAgeBeyond32Bits(t *testing.T) {
	tr := newTestTransformer()
	resp := tr.Transform(request("POST", "/users", `{"first_name":"A","email":"a@b.com","age":"2147483648"}`))
	assertError(t, resp, 400, MessageInvalidInteger)
}

func TestUpdateRendersAgeBeyond32BitsAsZero(t *testing.T) {
	tr := newTestTransformer()
	seed := tr.ResetWithSeed(User{Email: "kamu@belyf.com", FirstName: "Kamatchi", Age: AgeOf("29")})

	resp := tr.Transform(request("PATCH", "/users?id=eq."+seed.ID, `{"age":"99999999999"}`))
	records := decodeRecords(t, resp)
	require.Len(t, records, 1)
	assert.Equal(t, 0, records[0].Age)
}

func TestLastNameRendersNullWhenAbsent(t *testing.T) {
	tr := newTestTransformer()
	resp := tr.Transform(request("POST", "/users", `{"first_name":"A","email":"a@b.com","age":29}`))
	assert.Equal(t, `[{"id":"gen-1","first_name":"A","last_name":null,"email":"a@b.com","age":29}]`, string(resp.Body))

	resp = tr.Transform(request("POST", "/users", `{"first_name":"B","last_name":"","email":"b@b.com","age":29}`))
	assert.Equal(t, `[{"id":"gen-2","first_name":"B","last_name":"","email":"b@b.com","age":29}]`, string(resp.Body))

	resp = tr.Transform(request("PATCH", "/users?id=eq.gen-1", `{"last_name":null}`))
	assert.Equal(t, `[{"id":"gen-1","first_name":"A","last_name":null,"email":"a@b.com","age":29}]`, string(resp.Body))

	resp = tr.Transform(request("PATCH", "/users?id=eq.gen-1", `{"last_name":"Smith"}`))
	assert.Equal(t, `[{"id":"gen-1","first_name":"A","last_name":"Smith","email":"a@b.com","age":29}]`, string(resp.Body))
}
