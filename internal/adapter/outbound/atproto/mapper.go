package atproto

import (
	appbsky "github.com/bluesky-social/indigo/api/bsky"
	"github.com/bluesky-social/indigo/atproto/identity"

	"github.com/0xsj/overwatch-follows/internal/domain/model"
)

func toFollowerRecords(views []*appbsky.ActorDefs_ProfileView) []model.FollowerRecord {
	records := make([]model.FollowerRecord, 0, len(views))
	for _, v := range views {
		if v == nil {
			continue
		}
		records = append(records, toFollowerRecord(v))
	}
	return records
}

func toFollowerRecord(v *appbsky.ActorDefs_ProfileView) model.FollowerRecord {
	return model.FollowerRecord{
		DID:         v.Did,
		Handle:      v.Handle,
		DisplayName: deref(v.DisplayName),
		Avatar:      deref(v.Avatar),
		Description: deref(v.Description),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toDIDDocument(doc *identity.DIDDocument) *model.DIDDocument {
	services := make([]model.ServiceEndpoint, 0, len(doc.Service))
	for _, svc := range doc.Service {
		services = append(services, model.ServiceEndpoint{
			ID:              svc.ID,
			Type:            svc.Type,
			ServiceEndpoint: svc.ServiceEndpoint,
		})
	}
	return &model.DIDDocument{
		ID:          doc.DID.String(),
		AlsoKnownAs: doc.AlsoKnownAs,
		Service:     services,
	}
}
