package wizard

import "errors"

// Validation errors for the interactive wizard.
var (
	errClusterNameRequired = errors.New("cluster name is required")
	errClusterNameInvalid  = errors.New("cluster name must be lowercase alphanumeric characters or hyphens, starting with a letter")
	errDomainInvalid       = errors.New("domain must be a valid domain name")
	errARNInvalid          = errors.New("role must be an IAM role ARN")
)
