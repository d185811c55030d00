package addons

import (
	"github.com/imamik/chartstack/internal/addons/helm"
	"github.com/imamik/chartstack/internal/release"
)

// DefaultStorageClassName is the storage class the EBS CSI driver creates.
const DefaultStorageClassName = "ebs"

var awsEBSCSIDriverProduct = product{key: "aws-ebs-csi-driver", namespace: "default", timeout: release.DefaultTimeout}

// AWSEBSCSIDriverArgs configures the EBS CSI driver and its default
// storage class.
type AWSEBSCSIDriverArgs struct {
	ReleaseArgs
	RoleARN                 string
	DefaultStorageClassName string
}

// AWSEBSCSIDriver returns the EBS CSI driver release.
func AWSEBSCSIDriver(provider *release.Provider, args AWSEBSCSIDriverArgs) *release.Release {
	return args.newRelease(provider, awsEBSCSIDriverProduct, buildAWSEBSCSIDriverValues(args))
}

func buildAWSEBSCSIDriverValues(args AWSEBSCSIDriverArgs) helm.Values {
	return helm.Values{
		"storageClasses": []helm.Values{
			{
				"name": stringOr(args.DefaultStorageClassName, DefaultStorageClassName),
				"annotations": helm.Values{
					"storageclass.kubernetes.io/is-default-class": "true",
				},
				"labels":               helm.Values{},
				"volumeBindingMode":    "WaitForFirstConsumer",
				"reclaimPolicy":        "Retain",
				"allowVolumeExpansion": true,
				"parameters": helm.Values{
					"encrypted": "true",
				},
			},
		},
		"controller": helm.Values{
			"serviceAccount": helm.ServiceAccount(args.RoleARN),
		},
		"node": helm.Values{
			"serviceAccount": helm.ServiceAccount(args.RoleARN),
		},
	}
}
