package main

import (
	"context"
	"flag"
	"fmt"
	"net/netip"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"tunsup"
)

var (
	binPath      string
	binArgs      string
	buildCmd     string
	noBuild      bool
	setcapBinary bool
	ifaceName    = tunsup.DefaultInterfaceName
	ifaceAddr    = tunsup.DefaultAddress
	mtu          uint
	readyTimeout = tunsup.DefaultReadyTimeout
	stopTimeout  = tunsup.DefaultStopTimeout
	doProbe      bool
	probeDst     string
)

func main() {
	flag.StringVar(&binPath, "bin", binPath, "stack binary to supervise (required)")
	flag.StringVar(&binArgs, "args", binArgs, "arguments passed to the stack binary")
	flag.StringVar(&buildCmd, "build-cmd", strings.Join(tunsup.DefaultBuildCommand(), " "), "build command producing the stack binary")
	flag.BoolVar(&noBuild, "no-build", noBuild, "skip the build phase")
	flag.BoolVar(&setcapBinary, "setcap", setcapBinary, "grant cap_net_admin+ep to the binary after building")
	flag.StringVar(&ifaceName, "iface", ifaceName, "tun interface the stack creates")
	flag.StringVar(&ifaceAddr, "addr", ifaceAddr, "address with prefix length to assign")
	flag.UintVar(&mtu, "mtu", mtu, "interface mtu, 0 leaves it untouched")
	flag.DurationVar(&readyTimeout, "ready-timeout", readyTimeout, "how long to wait for the interface to appear")
	flag.DurationVar(&stopTimeout, "stop-timeout", stopTimeout, "how long to wait after SIGTERM before SIGKILL")
	flag.BoolVar(&doProbe, "probe", doProbe, "send one ICMP echo through the interface after provisioning")
	flag.StringVar(&probeDst, "probe-dst", probeDst, "probe destination, defaults to the host after --addr")
	flag.Parse()

	log := tunsup.NewStderrLogger()

	if binPath == "" {
		fmt.Fprintln(os.Stderr, "tunsup: --bin is required")
		flag.Usage()
		os.Exit(2)
	}
	addr, err := netip.ParsePrefix(ifaceAddr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tunsup: invalid --addr %q: %v\n", ifaceAddr, err)
		os.Exit(2)
	}
	var peer netip.Addr
	if probeDst != "" {
		if peer, err = netip.ParseAddr(probeDst); err != nil {
			fmt.Fprintf(os.Stderr, "tunsup: invalid --probe-dst %q: %v\n", probeDst, err)
			os.Exit(2)
		}
	}

	sup := tunsup.New(tunsup.Options{
		BinaryPath:    binPath,
		BinaryArgs:    strings.Fields(binArgs),
		BuildCommand:  strings.Fields(buildCmd),
		SkipBuild:     noBuild,
		GrantFileCaps: setcapBinary,
		InterfaceName: ifaceName,
		Address:       addr,
		MTU:           uint32(mtu),
		ReadyTimeout:  readyTimeout,
		StopTimeout:   stopTimeout,
		Probe:         doProbe,
		ProbePeer:     peer,
		Logger:        log,
	})

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info("shutdown signal", "signal", sig)
		cancel()
		// Stay registered and swallow repeats so the kill-then-reap
		// sequence cannot be interrupted by a second signal.
		for range sigCh {
		}
	}()

	code, err := sup.Run(ctx)
	if err != nil {
		log.Error("supervision failed", "err", err)
		if code == 0 {
			code = 1
		}
	}
	os.Exit(code)
}
