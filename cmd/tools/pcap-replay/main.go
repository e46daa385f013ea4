// Command pcap-replay replays captured telemetry traffic into a live UDP
// port. It reads a pcap file with the pure-Go reader, keeps only UDP
// payloads matching the capture port, and re-sends them to the target,
// pacing by the original capture timestamps.
//
// Usage:
//
//	go run ./cmd/tools/pcap-replay -file capture.pcap -port 9000
//
// Flags:
//
//	-file    Path to pcap file (required)
//	-port    Capture-side UDP destination port to filter on (required)
//	-target  Replay destination (default: 127.0.0.1:<port>)
//	-rate    Playback speed multiplier (default: 1.0)
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

func main() {
	file := flag.String("file", "", "Path to pcap file (required)")
	port := flag.Int("port", 0, "Capture-side UDP destination port (required)")
	target := flag.String("target", "", "Replay destination (default: 127.0.0.1:<port>)")
	rate := flag.Float64("rate", 1.0, "Playback speed multiplier")
	flag.Parse()

	if *file == "" || *port == 0 {
		log.Fatal("Error: -file and -port flags are required")
	}
	dest := *target
	if dest == "" {
		dest = fmt.Sprintf("127.0.0.1:%d", *port)
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("Failed to open pcap file: %v", err)
	}
	defer f.Close()

	reader, err := pcapgo.NewReader(f)
	if err != nil {
		log.Fatalf("Failed to read pcap header: %v", err)
	}

	addr, err := net.ResolveUDPAddr("udp4", dest)
	if err != nil {
		log.Fatalf("Bad replay target %s: %v", dest, err)
	}
	conn, err := net.DialUDP("udp4", nil, addr)
	if err != nil {
		log.Fatalf("Failed to dial %s: %v", dest, err)
	}
	defer conn.Close()

	log.Printf("Replaying %s (udp dst port %d) to %s at %.2fx", *file, *port, dest, *rate)

	var sent, skipped int
	var lastCapture time.Time
	for {
		data, ci, err := reader.ReadPacketData()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatalf("Failed to read packet: %v", err)
		}

		packet := gopacket.NewPacket(data, reader.LinkType(), gopacket.Default)
		udpLayer := packet.Layer(layers.LayerTypeUDP)
		if udpLayer == nil {
			skipped++
			continue
		}
		udp, ok := udpLayer.(*layers.UDP)
		if !ok || int(udp.DstPort) != *port || len(udp.Payload) == 0 {
			skipped++
			continue
		}

		// Pace by capture timestamps so smoothing and staleness behave
		// as they did live.
		if !lastCapture.IsZero() {
			gap := ci.Timestamp.Sub(lastCapture)
			if gap > 0 && *rate > 0 {
				time.Sleep(time.Duration(float64(gap) / *rate))
			}
		}
		lastCapture = ci.Timestamp

		if _, err := conn.Write(udp.Payload); err != nil {
			log.Printf("Send error: %v", err)
			continue
		}
		sent++
	}

	log.Printf("Replay complete: %d packets sent, %d skipped", sent, skipped)
}
