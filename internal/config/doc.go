// Package config loads and validates the chartstack stack configuration.
//
// The configuration is a YAML file, chartstack.yaml by default, describing
// the target EKS cluster, the shared ingress and storage settings and one
// section per add-on:
//
//	cluster:
//	  name: prod
//	  region: eu-central-1
//	ingress:
//	  domain: example.com
//	addons:
//	  cilium:
//	    enabled: true
//	  externalDns:
//	    enabled: true
//	    roleArn: arn:aws:iam::123456789012:role/external-dns
//
// The file is rendered as a Go template with the sprig function map before
// it is parsed, so values such as {{ env "AWS_REGION" }} are resolved at
// load time.
package config
