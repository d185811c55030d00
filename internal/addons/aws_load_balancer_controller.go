package addons

import (
	"github.com/imamik/chartstack/internal/addons/helm"
	"github.com/imamik/chartstack/internal/release"
)

var awsLoadBalancerControllerProduct = product{key: "aws-load-balancer-controller", namespace: "default", timeout: release.DefaultTimeout}

// AWSLoadBalancerControllerArgs configures the AWS Load Balancer Controller.
type AWSLoadBalancerControllerArgs struct {
	ReleaseArgs
	Region      string
	VPCID       string
	RoleARN     string
	ClusterName string
}

// AWSLoadBalancerController returns the AWS Load Balancer Controller release.
func AWSLoadBalancerController(provider *release.Provider, args AWSLoadBalancerControllerArgs) *release.Release {
	return args.newRelease(provider, awsLoadBalancerControllerProduct, buildAWSLoadBalancerControllerValues(args))
}

func buildAWSLoadBalancerControllerValues(args AWSLoadBalancerControllerArgs) helm.Values {
	return helm.Values{
		"clusterName":    args.ClusterName,
		"region":         args.Region,
		"vpcId":          args.VPCID,
		"serviceAccount": helm.ServiceAccount(args.RoleARN),
	}
}
