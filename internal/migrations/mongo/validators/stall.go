package validators

import "go.mongodb.org/mongo-driver/bson"

var StallValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"_id",
			"event_id",
			"name",
			"hall_name",
			"geometry",
			"price_cents",
			"reserved",
			"blocked",
			"position",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id":      bson.M{"bsonType": "long", "minimum": 1},
			"event_id": bson.M{"bsonType": "long", "minimum": 1},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"hall_name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"geometry": bson.M{"bsonType": "string"},

			"price_cents": bson.M{
				"bsonType": "long",
				"minimum":  0,
			},

			"size": bson.M{
				"enum": []string{"SMALL", "MEDIUM", "LARGE"},
			},

			"category": bson.M{
				"enum": []string{"RETAIL", "FOOD", "SPONSOR", "ANCHOR"},
			},

			"sq_ft":      bson.M{"bsonType": []string{"int", "long"}, "minimum": 0},
			"reserved":   bson.M{"bsonType": "bool"},
			"blocked":    bson.M{"bsonType": "bool"},
			"position":   bson.M{"bsonType": []string{"int", "long"}, "minimum": 0},
			"updated_at": bson.M{"bsonType": "date"},
		},
	},
}
