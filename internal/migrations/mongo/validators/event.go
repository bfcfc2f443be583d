package validators

import "go.mongodb.org/mongo-driver/bson"

var EventValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"_id", "name", "layout_config", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id": bson.M{"bsonType": "long", "minimum": 1},
			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 200,
			},
			"venue": bson.M{"bsonType": "string", "maxLength": 200},
			"halls": bson.M{
				"bsonType": "array",
				"maxItems": 50,
				"items":    bson.M{"bsonType": "string", "minLength": 1, "maxLength": 100},
			},
			"starts_at":     bson.M{"bsonType": "date"},
			"ends_at":       bson.M{"bsonType": "date"},
			"layout_config": bson.M{"bsonType": "string"},
			"created_at":    bson.M{"bsonType": "date"},
			"updated_at":    bson.M{"bsonType": "date"},
		},
	},
}

var CounterValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"_id", "seq"},
		"properties": bson.M{
			"_id": bson.M{"bsonType": "string"},
			"seq": bson.M{"bsonType": "long", "minimum": 0},
		},
	},
}
