// Command norvikcli prints a JSON capability report of every
// Vulkan adapter visible on the machine.
package main

import (
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/norvik3d/norvik/core"
)

func main() {
	cfg := core.DefaultConfiguration()

	api := core.NewVulkanAPI()
	instance, err := core.NewInstanceContext(api, core.NopLogger{}, cfg.App, nil, core.InstanceConfiguration{})
	if err != nil {
		log.Fatal(err)
	}
	defer instance.Destroy()

	infos, err := core.ProbePhysicalDevices(api, instance)
	if err != nil {
		log.Fatal(err)
	}

	bytes, err := json.Marshal(infos)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s", bytes)
}
