package command

import "fmt"

// ShowUsage prints the command manual.
func (r *Router) ShowUsage() {
	fmt.Fprint(r.out, usageText)
}

const usageText = `########################################################################
HFP AG command usage manual
HFP AG commands begin with "hf " and end with ";"
Supported commands are as follows, arguments are embraced with < and >

hf con;                   -- set up connection with peer device
hf dis;                   -- disconnect with peer device
hf cona;                  -- set up audio connection with peer device
hf disa;                  -- release audio connection with peer device
hf vron;                  -- start voice recognition
hf vroff;                 -- stop voice recognition
hf vu <tgt> <vol>;        -- volume update
     tgt: 0-speaker, 1-microphone
     vol: volume gain ranges from 0 to 15
hf ind <call> <callsetup> <ntk> <sig>;       -- unsolicited indication device status to HF Client
     call: call status [0,1]
     callsetup: call setup status [0,3]
     ntk: network status [0,1]
     sig: signal strength value from 0~5
hf ate <rep> <err>;       -- send extended at error code
     rep: response code from 0 to 7
     err: error code from 0 to 32
hf iron;                  -- in-band ring tone provided
hf iroff;                 -- in-band ring tone not provided
hf ac;                    -- answer incoming call from AG
hf rc;                    -- reject incoming call from AG
hf d <num>;               -- dial number by AG, e.g. hf d 11223344
hf end;                   -- end up a call by AG
hf h;                     -- show the commands for HFP AG
########################################################################
`
