package stack_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/imamik/chartstack/internal/release"
	"github.com/imamik/chartstack/internal/stack"
)

func newRelease(name string, deps ...release.Resource) *release.Release {
	return release.NewRelease(nil, name, name, "1.0.0", "https://charts.example.com",
		release.WithDependsOn(deps...))
}

func names(resources []release.Resource) []string {
	out := make([]string, 0, len(resources))
	for _, r := range resources {
		out = append(out, r.ResourceName())
	}
	return out
}

var _ = Describe("Stack", func() {
	var s *stack.Stack

	BeforeEach(func() {
		s = stack.New("test")
	})

	Describe("Add", func() {
		It("keeps registration order", func() {
			cilium := newRelease("cilium")
			metrics := newRelease("metrics-server", cilium)
			Expect(s.Add(cilium, metrics)).To(Succeed())

			Expect(s.Len()).To(Equal(2))
			Expect(names(s.Resources())).To(Equal([]string{"cilium", "metrics-server"}))
		})

		It("rejects a dependency that is registered later", func() {
			cilium := newRelease("cilium")
			metrics := newRelease("metrics-server", cilium)

			err := s.Add(metrics)
			Expect(err).To(MatchError(stack.ErrForwardReference))
			Expect(err.Error()).To(ContainSubstring(`"metrics-server" depends on Release "cilium"`))
			Expect(s.Len()).To(BeZero())
		})

		It("rejects a repeated name", func() {
			Expect(s.Add(newRelease("cilium"))).To(Succeed())
			Expect(s.Add(newRelease("cilium"))).To(MatchError(stack.ErrDuplicate))
		})

		It("accepts external dependencies", func() {
			ns := release.External("Namespace", "monitoring")
			Expect(s.Add(newRelease("loki", ns))).To(Succeed())
		})

		It("registers chart renders", func() {
			cilium := newRelease("cilium")
			crds := release.NewChartRender(nil, "crds", "crds", "1.0.0", "https://charts.example.com",
				release.WithDependsOn(cilium))
			Expect(s.Add(cilium, crds)).To(Succeed())

			got, ok := s.Get("crds")
			Expect(ok).To(BeTrue())
			Expect(got.ResourceKind()).To(Equal(release.KindChartRender))
		})
	})

	Describe("Get", func() {
		It("reports unknown names", func() {
			_, ok := s.Get("missing")
			Expect(ok).To(BeFalse())
		})
	})

	Describe("Resources", func() {
		It("returns a copy", func() {
			Expect(s.Add(newRelease("cilium"))).To(Succeed())
			res := s.Resources()
			res[0] = newRelease("other")

			Expect(names(s.Resources())).To(Equal([]string{"cilium"}))
		})
	})

	Describe("Levels", func() {
		It("is empty for an empty stack", func() {
			Expect(s.Levels()).To(BeEmpty())
		})

		It("groups resources by dependency depth", func() {
			cilium := newRelease("cilium")
			metrics := newRelease("metrics-server", cilium)
			ingress := newRelease("ingress-nginx", cilium)
			argocd := newRelease("argo-cd", cilium, ingress)
			prom := newRelease("kube-prometheus-stack", cilium, ingress)
			thanos := newRelease("thanos", prom)
			Expect(s.Add(cilium, metrics, ingress, argocd, prom, thanos)).To(Succeed())

			levels := s.Levels()
			Expect(levels).To(HaveLen(4))
			Expect(names(levels[0])).To(Equal([]string{"cilium"}))
			Expect(names(levels[1])).To(Equal([]string{"metrics-server", "ingress-nginx"}))
			Expect(names(levels[2])).To(Equal([]string{"argo-cd", "kube-prometheus-stack"}))
			Expect(names(levels[3])).To(Equal([]string{"thanos"}))
		})

		It("puts resources with only external dependencies on level 0", func() {
			Expect(s.Add(newRelease("loki", release.External("Namespace", "logging")))).To(Succeed())

			levels := s.Levels()
			Expect(levels).To(HaveLen(1))
			Expect(names(levels[0])).To(Equal([]string{"loki"}))
		})
	})

	Describe("Validate", func() {
		It("accepts a well ordered graph", func() {
			cilium := newRelease("cilium")
			Expect(s.Add(cilium, newRelease("metrics-server", cilium))).To(Succeed())
			Expect(s.Validate()).To(Succeed())
		})

		It("catches dependencies added after registration", func() {
			cilium := newRelease("cilium")
			late := newRelease("late")
			Expect(s.Add(cilium, late)).To(Succeed())

			cilium.DependsOn = append(cilium.DependsOn, late)
			Expect(s.Validate()).To(MatchError(stack.ErrForwardReference))
		})
	})
})
