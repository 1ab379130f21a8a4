package model

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for domain operations
var (
	ErrEventNotFound         = goerr.New("event not found")
	ErrMalwareNotFound       = goerr.New("malware not found")
	ErrPhishNotFound         = goerr.New("phishing instance not found")
	ErrIOCNotFound           = goerr.New("ioc not found")
	ErrMitigationNotFound    = goerr.New("mitigation not found")
	ErrAPTNotFound           = goerr.New("apt profile not found")
	ErrVulnerabilityNotFound = goerr.New("vulnerability not found")
	ErrClusterNotFound       = goerr.New("cluster not found")
	ErrFamilyNotFound        = goerr.New("malware family not found")
	ErrCategoryNotFound      = goerr.New("malware category not found")
)
