package cli

import (
	"github.com/spf13/cobra"

	"github.com/mblayman/nibiru/internal/supervisor"
)

// addInternalFlags registers the hidden flags a re-exec'd child process
// reads to recover the state its supervisor already computed. None of
// these are listed in --help: MarkHidden keeps them out of usage text
// while still letting cobra parse them when the supervisor re-execs
// os.Args[0] with them set.
func addInternalFlags(root *cobra.Command) {
	flags := root.Flags()
	flags.String(supervisor.RoleFlag, "", "")
	flags.Int(supervisor.WorkerIndexFlag, 0, "")
	flags.String(supervisor.AppModuleFlag, "", "")
	flags.String(supervisor.AppCallableFlag, "", "")
	flags.String(supervisor.StaticPrefixFlag, "", "")
	flags.String(supervisor.StaticRootFlag, "", "")
	flags.String(supervisor.DelegationPathFlag, "", "")
	flags.Bool(supervisor.UseEpollFlag, false, "")
	flags.Bool(supervisor.TrustProxyProtocolFlag, false, "")

	for _, name := range []string{
		supervisor.RoleFlag,
		supervisor.WorkerIndexFlag,
		supervisor.AppModuleFlag,
		supervisor.AppCallableFlag,
		supervisor.StaticPrefixFlag,
		supervisor.StaticRootFlag,
		supervisor.DelegationPathFlag,
		supervisor.UseEpollFlag,
		supervisor.TrustProxyProtocolFlag,
	} {
		_ = flags.MarkHidden(name)
	}
}

// runAsChild inspects the hidden role flag and, if set, runs the matching
// child loop and returns (true, err); the caller skips normal operator
// argument handling in that case. A role flag is only ever present when
// the supervisor re-exec'd this same binary; an operator invocation never
// sets it.
func runAsChild(cmd *cobra.Command) (bool, error) {
	role, _ := cmd.Flags().GetString(supervisor.RoleFlag)
	switch role {
	case "":
		return false, nil
	case supervisor.RoleWorker:
		idx, _ := cmd.Flags().GetInt(supervisor.WorkerIndexFlag)
		module, _ := cmd.Flags().GetString(supervisor.AppModuleFlag)
		callable, _ := cmd.Flags().GetString(supervisor.AppCallableFlag)
		prefix, _ := cmd.Flags().GetString(supervisor.StaticPrefixFlag)
		delegationPath, _ := cmd.Flags().GetString(supervisor.DelegationPathFlag)
		trustProxyProtocol, _ := cmd.Flags().GetBool(supervisor.TrustProxyProtocolFlag)
		return true, supervisor.RunWorkerChild(supervisor.WorkerChildConfig{
			Index:              idx,
			AppModule:          module,
			AppCallable:        callable,
			StaticURLPrefix:    prefix,
			DelegationPath:     delegationPath,
			TrustProxyProtocol: trustProxyProtocol,
		})
	case supervisor.RoleStatic:
		root, _ := cmd.Flags().GetString(supervisor.StaticRootFlag)
		prefix, _ := cmd.Flags().GetString(supervisor.StaticPrefixFlag)
		epoll, _ := cmd.Flags().GetBool(supervisor.UseEpollFlag)
		return true, supervisor.RunStaticChild(supervisor.StaticChildConfig{
			Root:      root,
			URLPrefix: prefix,
			UseEpoll:  epoll,
		})
	default:
		return true, nil
	}
}
