package policy

import (
	"wasteloop/internal/domain/entity"
	"wasteloop/internal/utils/apierror"
)

// NegotiationPolicy encapsulates all actor/state rules for negotiation manipulation.
// It returns apierror.ErrorResponse directly for seamless integration with services.
type NegotiationPolicy struct {
	// AllowClosedChat keeps messaging open on ACCEPTED/REJECTED negotiations
	// (post-deal logistics chat). Configurable because both readings are defensible.
	AllowClosedChat bool
}

func NewNegotiationPolicy(allowClosedChat bool) *NegotiationPolicy {
	return &NegotiationPolicy{AllowClosedChat: allowClosedChat}
}

// CanRespond checks whether actor may accept or reject the negotiation as the
// receiving party. The initiator cannot accept its own offer; it may only
// cancel (see CanCancel).
func (p *NegotiationPolicy) CanRespond(n *entity.Negotiation, actorID int64) apierror.ErrorResponse {
	if n.Terminal() {
		return apierror.InvalidTransitionError
	}
	if actorID != n.Recipient() {
		return apierror.NotAuthorizedError
	}
	return nil
}

// CanCancel checks whether actor may move the negotiation to REJECTED.
// Both the recipient (declining) and the initiator (withdrawing) may do so.
func (p *NegotiationPolicy) CanCancel(n *entity.Negotiation, actorID int64) apierror.ErrorResponse {
	if n.Terminal() {
		return apierror.InvalidTransitionError
	}
	if actorID != n.Recipient() && actorID != n.InitiatedBy {
		return apierror.NotAuthorizedError
	}
	return nil
}

// CanEditOffer permits quantity/price changes only to the initiator, and only
// while the negotiation is still SENT.
func (p *NegotiationPolicy) CanEditOffer(n *entity.Negotiation, actorID int64) apierror.ErrorResponse {
	if n.Terminal() {
		return apierror.InvalidTransitionError
	}
	if actorID != n.InitiatedBy {
		return apierror.NotAuthorizedError
	}
	return nil
}

func (p *NegotiationPolicy) CanMessage(n *entity.Negotiation, senderID int64) apierror.ErrorResponse {
	if !n.IsParticipant(senderID) {
		return apierror.NotParticipantError
	}
	if n.Terminal() && !p.AllowClosedChat {
		return apierror.InvalidTransitionError
	}
	return nil
}
