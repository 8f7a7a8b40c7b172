package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/marksb/aeron/internal/conductor"
)

type fakeRegistry struct {
	pubs       []conductor.PublicationSnapshot
	subs       []conductor.SubscriptionSnapshot
	images     []conductor.ImageSnapshot
	clients    []conductor.ClientSnapshot
	endpoints  []conductor.EndpointSnapshot
	errorCount int64
}

func (f *fakeRegistry) Publications() []conductor.PublicationSnapshot   { return f.pubs }
func (f *fakeRegistry) Subscriptions() []conductor.SubscriptionSnapshot { return f.subs }
func (f *fakeRegistry) Images() []conductor.ImageSnapshot               { return f.images }
func (f *fakeRegistry) Clients() []conductor.ClientSnapshot             { return f.clients }
func (f *fakeRegistry) Endpoints() []conductor.EndpointSnapshot         { return f.endpoints }
func (f *fakeRegistry) Buffers() []conductor.BufferStat                 { return nil }
func (f *fakeRegistry) ErrorCount() int64                               { return f.errorCount }

func TestListPublicationsReturnsJSON(t *testing.T) {
	reg := &fakeRegistry{pubs: []conductor.PublicationSnapshot{
		{RegistrationID: 1, Kind: "NETWORK", StreamID: 10, State: "ACTIVE"},
	}}

	srv := httptest.NewServer(New(reg).Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/publications")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var got []conductor.PublicationSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}

	if len(got) != 1 || got[0].RegistrationID != 1 {
		t.Fatalf("got %+v, want one publication with RegistrationID 1", got)
	}
}

func TestErrorCountReturnsJSON(t *testing.T) {
	reg := &fakeRegistry{errorCount: 7}

	srv := httptest.NewServer(New(reg).Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/errors")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var got errorCountRsp
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}

	if got.ErrorCount != 7 {
		t.Fatalf("error_count = %d, want 7", got.ErrorCount)
	}
}

func TestListEndpointsReturnsJSON(t *testing.T) {
	reg := &fakeRegistry{endpoints: []conductor.EndpointSnapshot{
		{Key: "send:localhost:4000", InstanceID: "abc123", Direction: "SEND", RefCount: 1},
	}}

	srv := httptest.NewServer(New(reg).Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/endpoints")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var got []conductor.EndpointSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}

	if len(got) != 1 || got[0].InstanceID != "abc123" {
		t.Fatalf("got %+v, want one endpoint with InstanceID abc123", got)
	}
}

func TestListBuffersReturnsEmptyArrayWhenNone(t *testing.T) {
	reg := &fakeRegistry{}

	srv := httptest.NewServer(New(reg).Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/buffers")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var got []bufferOccupancy
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}

	if len(got) != 0 {
		t.Fatalf("got %+v, want empty", got)
	}
}
