package handlers

// Per-resource allow-lists: the fixed set of field names a query or write
// may accept from a caller. Query maps translate the flat parameter name to
// its document path.

var propertyQueryFields = map[string]string{
	"type":      "type",
	"occupancy": "occupancy",
	"city":      "location.city",
	"district":  "location.district",
	"state":     "location.state",
	"country":   "location.country",
	"bedrooms":  "layout.bedrooms",
	"mls":       "metadata.mls",
}

var propertyUpdateFields = map[string]struct{}{
	"name":        {},
	"images":      {},
	"type":        {},
	"location":    {},
	"features":    {},
	"layout":      {},
	"listedBy":    {},
	"description": {},
	"occupancy":   {},
	"price":       {},
	"finance":     {},
}

var userQueryFields = map[string]string{
	"name":  "name",
	"email": "email",
	"role":  "role",
}

// userUpdateFields is what an admin may change; userSelfUpdateFields is the
// profile slice a user may change about themselves.
var userUpdateFields = map[string]struct{}{
	"name":   {},
	"email":  {},
	"photo":  {},
	"role":   {},
	"active": {},
}

var userSelfUpdateFields = map[string]struct{}{
	"name":  {},
	"email": {},
	"photo": {},
}

var blogQueryFields = map[string]string{
	"name":   "name",
	"active": "active",
	"tags":   "tags",
}

var blogUpdateFields = map[string]struct{}{
	"name":     {},
	"coverImg": {},
	"content":  {},
	"active":   {},
	"tags":     {},
}
