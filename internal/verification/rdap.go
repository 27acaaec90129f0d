package verification

import (
	"context"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// rdapRegistrationAction is the RDAP event action carrying the original
// registration date of a domain.
const rdapRegistrationAction = "registration"

// DomainCreationDate looks up when a domain was first registered, via the
// public RDAP aggregator. Returns nil when the lookup fails or the record
// has no registration event; the timeline rule simply stays silent then.
func (v *Verifier) DomainCreationDate(ctx context.Context, domain string) *time.Time {
	reqURL := v.rdapBase + "/domain/" + url.PathEscape(domain)

	var record struct {
		Events []struct {
			Action string `json:"eventAction"`
			Date   string `json:"eventDate"`
		} `json:"events"`
	}
	if err := v.getJSON(ctx, reqURL, &record); err != nil {
		v.log.Debug("rdap lookup failed", zap.String("domain", domain), zap.Error(err))
		return nil
	}

	for _, event := range record.Events {
		if event.Action != rdapRegistrationAction {
			continue
		}
		created, err := time.Parse(time.RFC3339, event.Date)
		if err != nil {
			v.log.Debug("rdap date unparseable", zap.String("domain", domain), zap.String("date", event.Date))
			return nil
		}
		return &created
	}
	return nil
}
