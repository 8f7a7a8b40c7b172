package admin

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/syifan/goseth"

	"github.com/marksb/aeron/internal/conductor"
)

// registryDump is the full conductor object graph a single /api/state
// request walks, one field per table, mirroring the teacher's
// listComponentDetails (serialize a named component at a shallow depth)
// generalized from "one of many named simulation components" to "the
// conductor's one fixed set of registries."
type registryDump struct {
	Publications  []conductor.PublicationSnapshot
	Subscriptions []conductor.SubscriptionSnapshot
	Images        []conductor.ImageSnapshot
	Clients       []conductor.ClientSnapshot
	Endpoints     []conductor.EndpointSnapshot
}

func (s *Server) stateDump() registryDump {
	return registryDump{
		Publications:  s.registry.Publications(),
		Subscriptions: s.registry.Subscriptions(),
		Images:        s.registry.Images(),
		Clients:       s.registry.Clients(),
		Endpoints:     s.registry.Endpoints(),
	}
}

// dumpState serializes every registry at a shallow depth via goseth, the
// teacher's reflection-based object-graph serializer, rather than the flat
// per-table JSON the other endpoints return — useful for an operator who
// wants one full snapshot instead of five separate requests.
func (s *Server) dumpState(w http.ResponseWriter, _ *http.Request) {
	serializer := goseth.NewSerializer()
	serializer.SetRoot(s.stateDump())
	serializer.SetMaxDepth(2)

	if err := serializer.Serialize(w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// dumpStateField walks to a single dotted field path within the state
// dump (e.g. "Publications.0.ChannelURI"), mirroring the teacher's
// listFieldValue.
func (s *Server) dumpStateField(w http.ResponseWriter, r *http.Request) {
	path := mux.Vars(r)["path"]

	serializer := goseth.NewSerializer()
	serializer.SetRoot(s.stateDump())
	serializer.SetMaxDepth(2)

	if err := serializer.SetEntryPoint(strings.Split(path, ".")); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := serializer.Serialize(w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
