package helm

// IRSAAnnotations returns the service account annotations binding an IAM role
// to a Kubernetes service account on EKS.
func IRSAAnnotations(roleARN string) Values {
	return Values{
		"eks.amazonaws.com/role-arn": roleARN,
	}
}

// ServiceAccount returns a chart serviceAccount block that creates the account
// and annotates it with the given IAM role.
func ServiceAccount(roleARN string) Values {
	return Values{
		"create":      true,
		"annotations": IRSAAnnotations(roleARN),
	}
}

// Resources returns a container resources block.
func Resources(requestCPU, requestMemory, limitCPU, limitMemory any) Values {
	return Values{
		"requests": Values{
			"cpu":    requestCPU,
			"memory": requestMemory,
		},
		"limits": Values{
			"cpu":    limitCPU,
			"memory": limitMemory,
		},
	}
}

// MatchExpression returns a single node selector requirement using the In operator.
func MatchExpression(key string, values ...string) Values {
	return Values{
		"key":      key,
		"operator": "In",
		"values":   values,
	}
}

// RequiredNodeAffinity returns a requiredDuringSchedulingIgnoredDuringExecution
// block with a single node selector term built from the given expressions.
func RequiredNodeAffinity(expressions ...Values) Values {
	return Values{
		"requiredDuringSchedulingIgnoredDuringExecution": Values{
			"nodeSelectorTerms": []Values{
				{
					"matchExpressions": expressions,
				},
			},
		},
	}
}

// NodeAffinity wraps RequiredNodeAffinity in a pod affinity "nodeAffinity" key.
func NodeAffinity(expressions ...Values) Values {
	return Values{
		"nodeAffinity": RequiredNodeAffinity(expressions...),
	}
}

// AppNodeAffinity pins pods to nodes labelled app=<app>.
func AppNodeAffinity(app string) Values {
	return NodeAffinity(MatchExpression("app", app))
}

// HostnameAntiAffinity returns a hard pod anti-affinity spreading pods with
// label app=<app> over distinct hosts.
func HostnameAntiAffinity(app string) Values {
	return Values{
		"podAntiAffinity": Values{
			"requiredDuringSchedulingIgnoredDuringExecution": []Values{
				{
					"topologyKey":   "kubernetes.io/hostname",
					"labelSelector": AppLabelSelector(app),
				},
			},
		},
	}
}

// AppLabelSelector returns a label selector matching app=<app>.
func AppLabelSelector(app string) Values {
	return Values{
		"matchLabels": Values{
			"app": app,
		},
	}
}

// TopologySpread returns zone + hostname topology spread constraints for pods
// labelled app=<app>, both using the given whenUnsatisfiable policy.
func TopologySpread(app, whenUnsatisfiable string) []Values {
	return []Values{
		{
			"maxSkew":           1,
			"topologyKey":       "topology.kubernetes.io/zone",
			"whenUnsatisfiable": whenUnsatisfiable,
			"labelSelector":     AppLabelSelector(app),
		},
		{
			"maxSkew":           1,
			"topologyKey":       "kubernetes.io/hostname",
			"whenUnsatisfiable": whenUnsatisfiable,
			"labelSelector":     AppLabelSelector(app),
		},
	}
}

// PrefixIngress returns the common ingress block used by charts that accept
// a list of hosts and paths.
func PrefixIngress(className string, hosts ...string) Values {
	return Values{
		"enabled":          true,
		"ingressClassName": className,
		"hosts":            hosts,
		"paths":            []string{"/"},
		"pathType":         "Prefix",
		"tls":              []Values{},
	}
}

// VolumeClaimTemplate returns a ReadWriteOnce volume claim template spec.
func VolumeClaimTemplate(storageClass, size string) Values {
	return Values{
		"spec": Values{
			"storageClassName": storageClass,
			"accessModes":      []string{"ReadWriteOnce"},
			"resources": Values{
				"requests": Values{
					"storage": size,
				},
			},
		},
	}
}
