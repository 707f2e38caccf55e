package handlers

import (
	"bus-tracker-service/internal/services"
	"log"
	"net/http"
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// GTFSRealtimeHandler publishes the fleet as a GTFS-Realtime VehiclePositions feed.
type GTFSRealtimeHandler struct {
	Sim *services.Simulator
}

// VehiclePositions writes the feed as protobuf, or as JSON with ?format=json.
func (h *GTFSRealtimeHandler) VehiclePositions(w http.ResponseWriter, r *http.Request) {
	feed := h.buildFeed(time.Now())

	if r.URL.Query().Get("format") == "json" {
		b, err := protojson.MarshalOptions{UseProtoNames: true}.Marshal(feed)
		if err != nil {
			log.Printf("gtfs-rt json marshal failed: err=%v", err)
			writeError(w, r, http.StatusInternalServerError, "internal server error")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(b)
		return
	}

	b, err := proto.Marshal(feed)
	if err != nil {
		log.Printf("gtfs-rt marshal failed: err=%v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	w.Header().Set("Content-Type", "application/x-protobuf")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (h *GTFSRealtimeHandler) buildFeed(now time.Time) *gtfs.FeedMessage {
	route := h.Sim.Route()
	ts := uint64(now.Unix())

	feed := &gtfs.FeedMessage{
		Header: &gtfs.FeedHeader{
			GtfsRealtimeVersion: proto.String("2.0"),
			Incrementality:      gtfs.FeedHeader_FULL_DATASET.Enum(),
			Timestamp:           proto.Uint64(ts),
		},
	}

	for _, v := range h.Sim.Vehicles() {
		vp := &gtfs.VehiclePosition{
			Trip: &gtfs.TripDescriptor{
				RouteId: proto.String(route.Name),
			},
			Vehicle: &gtfs.VehicleDescriptor{
				Id:    proto.String(v.ID),
				Label: proto.String(v.ID),
			},
			Position: &gtfs.Position{
				Latitude:  proto.Float32(float32(v.Position.Lat)),
				Longitude: proto.Float32(float32(v.Position.Lon)),
				// GTFS-RT speed is meters per second.
				Speed: proto.Float32(float32(v.SpeedKmh / 3.6)),
			},
			Timestamp: proto.Uint64(ts),
		}

		if v.Dwelling {
			vp.CurrentStatus = gtfs.VehiclePosition_STOPPED_AT.Enum()
			vp.Position.Speed = proto.Float32(0)
			if stop, _, err := h.Sim.NearestStop(v.Position); err == nil {
				vp.StopId = proto.String(stop.Name)
			}
		} else {
			vp.CurrentStatus = gtfs.VehiclePosition_IN_TRANSIT_TO.Enum()
		}

		feed.Entity = append(feed.Entity, &gtfs.FeedEntity{
			Id:      proto.String(v.ID),
			Vehicle: vp,
		})
	}

	return feed
}
