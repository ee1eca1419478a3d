package pipeline

import (
	"github.com/charmbracelet/log"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/jrwynneiii/spp_tools/layers/subnetwork"
	"github.com/jrwynneiii/spp_tools/spp"
)

// Pipeline wires one space packet service over a UDP subnetwork from a
// configuration file. With spp.apid set it carries an octet service bound to
// that APID; without it a raw packet service for callers that assemble their
// own headers.
type Pipeline struct {
	Subnetwork *subnetwork.UDP
	Octet      *spp.OctetService
	Packet     *spp.PacketService
	configFile *koanf.Koanf
}

// LoadConfig reads a TOML configuration file.
func LoadConfig(path string) (*koanf.Koanf, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return nil, err
	}
	return k, nil
}

func New(configFile *koanf.Koanf) (*Pipeline, error) {
	udp, err := subnetwork.NewUDP(
		configFile.String("subnetwork.listen"),
		configFile.String("subnetwork.remote"),
	)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		Subnetwork: udp,
		configFile: configFile,
	}

	if configFile.Exists("spp.apid") {
		p.Octet = spp.NewOctetService(uint16(configFile.Int("spp.apid")), udp)
		udp.SetReceiver(p.Octet)
	} else {
		p.Packet = spp.NewPacketService(udp)
		udp.SetReceiver(p.Packet)
	}

	return p, nil
}

func (p *Pipeline) Start() {
	log.Infof("Starting subnetwork on %s", p.Subnetwork.LocalAddr())
	go p.Subnetwork.Start()
}

func (p *Pipeline) Destroy() {
	p.Subnetwork.Destroy()
}
