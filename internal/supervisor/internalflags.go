package supervisor

// The flags below are never documented in --help output; internal/cli
// registers them as hidden and they exist solely so a re-exec'd child
// process can recover the state its supervisor already computed (listener
// fd, app specifier, static root) without repeating argv parsing against a
// live environment the child doesn't have. A child is only ever invoked
// by its own supervisor, never typed by an operator.
const (
	RoleFlag = "nibiru-internal-role"

	RoleWorker = "worker"
	RoleStatic = "static"

	WorkerIndexFlag    = "nibiru-internal-index"
	AppModuleFlag      = "nibiru-internal-app-module"
	AppCallableFlag    = "nibiru-internal-app-callable"
	StaticPrefixFlag   = "nibiru-internal-static-prefix"
	StaticRootFlag     = "nibiru-internal-static-root"
	DelegationPathFlag     = "nibiru-internal-delegation-path"
	UseEpollFlag           = "nibiru-internal-epoll"
	TrustProxyProtocolFlag = "nibiru-internal-trust-proxy-protocol"
)

// childFD is the fixed ExtraFiles slot every spawned child finds its
// inherited socket at: fd 0-2 are stdin/stdout/stderr, so the first entry
// in exec.Cmd.ExtraFiles always lands at fd 3.
const childFD = 3
