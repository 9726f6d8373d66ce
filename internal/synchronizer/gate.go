package synchronizer

// CanRun is the run gate: a simulation needs both an active group and an active scenario
func CanRun(groupActive, scenarioActive bool) bool {
	return groupActive && scenarioActive
}
