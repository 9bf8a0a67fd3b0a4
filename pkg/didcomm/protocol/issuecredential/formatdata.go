/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package issuecredential

import (
	"context"

	"github.com/hyperledger/aries-issuecredential-go/pkg/didcomm/protocol/decorator"
)

// FormatData is the decoded payload of every message of an exchange, keyed by format key.
// Messages the exchange does not have are left nil.
type FormatData struct {
	Proposal           map[string]interface{} `json:"proposal,omitempty"`
	Offer              map[string]interface{} `json:"offer,omitempty"`
	Request            map[string]interface{} `json:"request,omitempty"`
	Credential         map[string]interface{} `json:"credential,omitempty"`
	ProposalAttributes []Attribute            `json:"proposalAttributes,omitempty"`
	OfferAttributes    []Attribute            `json:"offerAttributes,omitempty"`
}

// GetFormatData returns the decoded attachments of the exchange. It never changes the exchange.
func (s *Service) GetFormatData(_ context.Context, recordID string) (*FormatData, error) {
	if _, err := s.repo.GetByID(recordID); err != nil {
		return nil, err
	}

	data := &FormatData{}

	proposal, err := s.optionalProposal(recordID)
	if err != nil {
		return nil, err
	}

	if proposal != nil {
		if data.Proposal, err = s.decodeByService(proposal.Formats, proposal.FiltersAttach); err != nil {
			return nil, err
		}

		if proposal.CredentialProposal != nil {
			data.ProposalAttributes = proposal.CredentialProposal.Attributes
		}
	}

	offer, err := s.optionalOffer(recordID)
	if err != nil {
		return nil, err
	}

	if offer != nil {
		if data.Offer, err = s.decodeByService(offer.Formats, offer.OffersAttach); err != nil {
			return nil, err
		}

		if offer.CredentialPreview != nil {
			data.OfferAttributes = offer.CredentialPreview.Attributes
		}
	}

	request := &RequestCredentialV2{}

	found, err := s.loadMessage(recordID, RequestCredentialMsgTypeV2, request)
	if err != nil {
		return nil, err
	}

	if found {
		if data.Request, err = s.decodeByService(request.Formats, request.RequestsAttach); err != nil {
			return nil, err
		}
	}

	credential := &IssueCredentialV2{}

	found, err = s.loadMessage(recordID, IssueCredentialMsgTypeV2, credential)
	if err != nil {
		return nil, err
	}

	if found {
		if data.Credential, err = s.decodeByService(credential.Formats, credential.CredentialsAttach); err != nil {
			return nil, err
		}
	}

	return data, nil
}

func (s *Service) decodeByService(formats []Format, attachments []decorator.Attachment) (map[string]interface{}, error) {
	result := map[string]interface{}{}

	for _, svc := range s.registry.ResolveFromFormats(formats) {
		att, err := FindAttachmentForService(svc, formats, attachments)
		if err != nil {
			return nil, err
		}

		if att == nil {
			continue
		}

		v, err := DecodeAttachment(&att.Attachment)
		if err != nil {
			return nil, err
		}

		result[svc.FormatKey()] = v
	}

	return result, nil
}
