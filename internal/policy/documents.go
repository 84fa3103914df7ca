package policy

import (
	"fmt"
	"strings"
)

// Document is the service-control-policy material for one guardrail.
type Document struct {
	ID          ID
	Description string
	// Content is the JSON policy document submitted to the provider.
	Content string
}

// MaxDocumentBytes is the provider's SCP document size quota.
const MaxDocumentBytes = 5120

var documents = map[ID]Document{
	"deny_root_access": {
		ID:          "deny_root_access",
		Description: "Deny all actions performed by the root user",
		Content: `{"Version":"2012-10-17","Statement":[{"Sid":"DenyRoot","Effect":"Deny","Action":"*","Resource":"*","Condition":{"StringLike":{"aws:PrincipalArn":"arn:aws:iam::*:root"}}}]}`,
	},
	"require_mfa": {
		ID:          "require_mfa",
		Description: "Deny sensitive actions when MFA is not present",
		Content: `{"Version":"2012-10-17","Statement":[{"Sid":"RequireMFA","Effect":"Deny","Action":["iam:*","organizations:*"],"Resource":"*","Condition":{"BoolIfExists":{"aws:MultiFactorAuthPresent":"false"}}}]}`,
	},
	"restrict_regions": {
		ID:          "restrict_regions",
		Description: "Deny actions outside governed regions",
		Content: `{"Version":"2012-10-17","Statement":[{"Sid":"RestrictRegions","Effect":"Deny","NotAction":["iam:*","organizations:*","sts:*","support:*"],"Resource":"*","Condition":{"StringNotEquals":{"aws:RequestedRegion":["us-east-1"]}}}]}`,
	},
	"deny_leave_org": {
		ID:          "deny_leave_org",
		Description: "Prevent member accounts from leaving the organization",
		Content: `{"Version":"2012-10-17","Statement":[{"Sid":"DenyLeaveOrg","Effect":"Deny","Action":"organizations:LeaveOrganization","Resource":"*"}]}`,
	},
	"restrict_instance_types": {
		ID:          "restrict_instance_types",
		Description: "Restrict EC2 launches to approved instance families",
		Content: `{"Version":"2012-10-17","Statement":[{"Sid":"RestrictInstanceTypes","Effect":"Deny","Action":"ec2:RunInstances","Resource":"arn:aws:ec2:*:*:instance/*","Condition":{"StringNotLike":{"ec2:InstanceType":["t3.*","m5.*","c5.*"]}}}]}`,
	},
	"require_encryption": {
		ID:          "require_encryption",
		Description: "Deny creation of unencrypted storage resources",
		Content: `{"Version":"2012-10-17","Statement":[{"Sid":"RequireEBSEncryption","Effect":"Deny","Action":"ec2:CreateVolume","Resource":"*","Condition":{"Bool":{"ec2:Encrypted":"false"}}},{"Sid":"RequireS3TLS","Effect":"Deny","Action":"s3:*","Resource":"*","Condition":{"Bool":{"aws:SecureTransport":"false"}}}]}`,
	},
}

// Validate checks the document against provider limits.
func (d Document) Validate() error {
	if len(d.Content) > MaxDocumentBytes {
		return fmt.Errorf("policy document %s is %d bytes, the provider quota is %d",
			d.ID, len(d.Content), MaxDocumentBytes)
	}
	return nil
}

// DocumentFor returns the SCP material for a guardrail id.
func DocumentFor(id ID) (Document, error) {
	doc, ok := documents[id]
	if !ok {
		return Document{}, fmt.Errorf("no policy document for %q", id)
	}
	if err := doc.Validate(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// AttachmentName returns the provider-visible SCP name for a guardrail at a
// tier, e.g. "Tower-Standard-deny_leave_org".
func AttachmentName(tier Tier, id ID) string {
	name := tier.String()
	return fmt.Sprintf("Tower-%s-%s", strings.ToUpper(name[:1])+name[1:], id)
}
