package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/carlatools/recording-query/pkg/reader"
)

func docMap(t *testing.T, d bson.D) map[string]any {
	t.Helper()
	m := make(map[string]any, len(d))
	for _, e := range d {
		m[e.Key] = e.Value
	}
	return m
}

func TestFrameDocument(t *testing.T) {
	d := frameDocument(reader.Frame{ID: 42, Elapsed: 1.5, DurationThis: 0.05})
	m := docMap(t, d)

	assert.Equal(t, "frame", m["kind"])
	assert.Equal(t, int64(42), m["frame"])
	assert.Equal(t, 1.5, m["elapsed"])
	assert.Equal(t, 0.05, m["duration"])
}

func TestAddDocument(t *testing.T) {
	frame := reader.Frame{ID: 1, Elapsed: 0.0}
	add := reader.EventAdd{
		DatabaseID: 7,
		Type:       1,
		Location:   reader.Vector3{X: 1, Y: 2, Z: 3},
		Description: reader.ActorDescription{
			ID: "vehicle.tesla.model3",
			Attributes: []reader.ActorAttribute{
				{ID: "role_name", Value: "hero"},
			},
		},
	}

	m := docMap(t, addDocument(frame, add))
	assert.Equal(t, "create", m["kind"])
	assert.Equal(t, int64(7), m["actor"])
	assert.Equal(t, int32(1), m["type"])
	assert.Equal(t, "vehicle.tesla.model3", m["description"])

	attrs := docMap(t, m["attributes"].(bson.D))
	assert.Equal(t, "hero", attrs["role_name"])

	loc := docMap(t, m["location"].(bson.D))
	assert.Equal(t, 1.0, loc["x"])
	assert.Equal(t, 3.0, loc["z"])
}

func TestCollisionDocument(t *testing.T) {
	frame := reader.Frame{ID: 3, Elapsed: 0.1}
	col := reader.Collision{ID: 1, IsActor1Hero: 1, DatabaseID1: 7, DatabaseID2: reader.NonActorID}

	m := docMap(t, collisionDocument(frame, col))
	assert.Equal(t, "collision", m["kind"])
	assert.Equal(t, int64(3), m["frame"])
	assert.Equal(t, int64(7), m["actor1"])
	assert.Equal(t, int64(reader.NonActorID), m["actor2"])
	assert.Equal(t, true, m["hero1"])
	assert.Equal(t, false, m["hero2"])
}

func TestPositionDocument(t *testing.T) {
	frame := reader.Frame{ID: 2, Elapsed: 0.05}
	pos := reader.Position{
		DatabaseID: 7,
		Location:   reader.Vector3{X: 10, Y: 20, Z: 30},
		Rotation:   reader.Vector3{Y: 90},
	}

	m := docMap(t, positionDocument(frame, pos))
	assert.Equal(t, "position", m["kind"])
	assert.Equal(t, int64(7), m["actor"])

	rot := docMap(t, m["rotation"].(bson.D))
	assert.Equal(t, 90.0, rot["y"])
}

func TestDelAndParentDocuments(t *testing.T) {
	frame := reader.Frame{ID: 5, Elapsed: 2.0}

	del := docMap(t, delDocument(frame, reader.EventDel{DatabaseID: 7}))
	assert.Equal(t, "destroy", del["kind"])
	assert.Equal(t, int64(7), del["actor"])

	par := docMap(t, parentDocument(frame, reader.EventParent{DatabaseID: 7, DatabaseIDParent: 3}))
	assert.Equal(t, "parent", par["kind"])
	assert.Equal(t, int64(3), par["parent"])
}
