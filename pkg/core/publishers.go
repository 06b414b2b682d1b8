package core

// knownPublisherActions catalogues actions known to publish runtime-built
// artifacts to an externally reachable destination: package registries,
// GitHub releases, container registries and cloud deploy targets.
var knownPublisherActions = []*ActionRef{
	// Public packages and binary distribution channels
	mustActionRef("pypa/gh-action-pypi-publish"),
	mustActionRef("rubygems/release-gem"),
	mustActionRef("jreleaser/release-action"),
	mustActionRef("goreleaser/goreleaser-action"),
	// GitHub releases
	mustActionRef("softprops/action-gh-release"),
	mustActionRef("release-drafter/release-drafter"),
	mustActionRef("googleapis/release-please-action"),
	// Container registries
	mustActionRef("docker/build-push-action"),
	mustActionRef("redhat-actions/push-to-registry"),
	// Cloud and edge providers
	mustActionRef("aws-actions/amazon-ecs-deploy-task-definition"),
	mustActionRef("aws-actions/aws-cloudformation-github-deploy"),
	mustActionRef("Azure/aci-deploy"),
	mustActionRef("Azure/container-apps-deploy-action"),
	mustActionRef("Azure/functions-action"),
	mustActionRef("Azure/sql-action"),
	mustActionRef("cloudflare/wrangler-action"),
	mustActionRef("google-github-actions/deploy-appengine"),
	mustActionRef("google-github-actions/deploy-cloudrun"),
	mustActionRef("google-github-actions/deploy-cloud-functions"),
}

// isKnownPublisherAction reports whether the action is catalogued as
// publishing artifacts, ignoring the pinned ref.
func isKnownPublisherAction(target *ActionRef) bool {
	for _, known := range knownPublisherActions {
		if target.SameAction(known) {
			return true
		}
	}
	return false
}
