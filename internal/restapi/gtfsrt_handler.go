package restapi

import (
	"net/http"
	"time"

	gtfsrt "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"
)

// vehiclePositionsFeedHandler exports the latest frame as a GTFS-RT
// VehiclePositions feed, so standard consumers can read the dashboard's
// interpolated positions.
func (api *RestAPI) vehiclePositionsFeedHandler(w http.ResponseWriter, r *http.Request) {
	frame := api.Pipeline.Frame()
	timestamp := uint64(time.Now().Unix())

	entities := make([]*gtfsrt.FeedEntity, 0, len(frame.Vehicles))
	for _, v := range frame.Vehicles {
		entities = append(entities, &gtfsrt.FeedEntity{
			Id: proto.String(v.TripID),
			Vehicle: &gtfsrt.VehiclePosition{
				Trip: &gtfsrt.TripDescriptor{
					TripId:  proto.String(v.TripID),
					RouteId: proto.String(v.Route.ID),
				},
				Position: &gtfsrt.Position{
					Latitude:  proto.Float32(float32(v.Position.Lat)),
					Longitude: proto.Float32(float32(v.Position.Lon)),
				},
				CurrentStatus: gtfsrt.VehiclePosition_IN_TRANSIT_TO.Enum(),
				StopId:        proto.String(v.Segment.To.ID),
				Timestamp:     proto.Uint64(timestamp),
			},
		})
	}

	feed := &gtfsrt.FeedMessage{
		Header: &gtfsrt.FeedHeader{
			GtfsRealtimeVersion: proto.String("2.0"),
			Incrementality:      gtfsrt.FeedHeader_FULL_DATASET.Enum(),
			Timestamp:           proto.Uint64(timestamp),
		},
		Entity: entities,
	}

	payload, err := proto.Marshal(feed)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/x-protobuf")
	if _, err := w.Write(payload); err != nil {
		api.Logger.Error("failed to write GTFS-RT payload", "error", err)
	}
}
