package application

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	gopterprop "github.com/leanovate/gopter/prop"
)

// genSlug generates plausible workspace and repository slugs.
func genSlug() gopter.Gen {
	return gen.RegexMatch(`[a-z][a-z0-9-]{0,20}`)
}

// TestCloneURLProperties tests the invariants of clone URL derivation over
// arbitrary workspace and repository slugs.
func TestCloneURLProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("ssh URLs never contain an https scheme", gopterprop.ForAll(
		func(workspace, repository string) bool {
			url := CloneURL("ssh", "bitbucket.org", workspace, repository)
			return strings.HasPrefix(url, "git@") && !strings.Contains(url, "https://")
		},
		genSlug(), genSlug(),
	))

	properties.Property("https URLs never contain an ssh prefix", gopterprop.ForAll(
		func(workspace, repository string) bool {
			url := CloneURL("https", "bitbucket.org", workspace, repository)
			return strings.HasPrefix(url, "https://") && !strings.Contains(url, "git@")
		},
		genSlug(), genSlug(),
	))

	properties.Property("every clone URL ends in .git", gopterprop.ForAll(
		func(protocol, workspace, repository string) bool {
			url := CloneURL(protocol, "bitbucket.org", workspace, repository)
			return strings.HasSuffix(url, ".git")
		},
		gen.OneConstOf("ssh", "https"), genSlug(), genSlug(),
	))

	properties.Property("derivation is deterministic", gopterprop.ForAll(
		func(protocol, workspace, repository string) bool {
			first := CloneURL(protocol, "bitbucket.org", workspace, repository)
			second := CloneURL(protocol, "bitbucket.org", workspace, repository)
			return first == second
		},
		gen.OneConstOf("ssh", "https"), genSlug(), genSlug(),
	))

	properties.Property("workspace and repository both appear in the URL", gopterprop.ForAll(
		func(protocol, workspace, repository string) bool {
			url := CloneURL(protocol, "bitbucket.org", workspace, repository)
			return strings.Contains(url, workspace+"/"+repository)
		},
		gen.OneConstOf("ssh", "https"), genSlug(), genSlug(),
	))

	properties.TestingRun(t)
}
