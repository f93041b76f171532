package model

// ServiceTypePDS marks the DID document service entry that hosts the account's data.
const ServiceTypePDS = "AtprotoPersonalDataServer"

// DIDDocument is the subset of a DID document needed to locate an account's PDS.
type DIDDocument struct {
	ID          string            `json:"id"`
	AlsoKnownAs []string          `json:"alsoKnownAs,omitempty"`
	Service     []ServiceEndpoint `json:"service"`
}

// ServiceEndpoint is one entry of a DID document's service list.
type ServiceEndpoint struct {
	ID              string `json:"id,omitempty"`
	Type            string `json:"type"`
	ServiceEndpoint string `json:"serviceEndpoint"`
}

// PDSEndpoint returns the endpoint of the first service whose type is
// ServiceTypePDS. Later entries are never consulted, so an empty endpoint
// on the first one reports false.
func (d *DIDDocument) PDSEndpoint() (string, bool) {
	if d == nil {
		return "", false
	}
	for _, svc := range d.Service {
		if svc.Type == ServiceTypePDS {
			return svc.ServiceEndpoint, svc.ServiceEndpoint != ""
		}
	}
	return "", false
}
